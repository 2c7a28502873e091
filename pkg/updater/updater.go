// Package updater checks GitHub for a newer gv release.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/gantt_viewer/pkg/version"
)

// LatestReleaseURL is the GitHub API endpoint for the newest gv release.
const LatestReleaseURL = "https://api.github.com/repos/Dicklesworthstone/gantt_viewer/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint. The zero value checks GitHub for
// version.Version.
type Checker struct {
	URL     string
	Current string
	Client  *http.Client
}

// CheckForUpdates returns the newer tag and its page, or empty strings when
// Current is up to date.
func (c Checker) CheckForUpdates(ctx context.Context) (string, string, error) {
	url := c.URL
	if url == "" {
		url = LatestReleaseURL
	}
	current := c.Current
	if current == "" {
		current = version.Version
	}
	client := c.Client
	if client == nil {
		// Short timeout so a slow network never stalls the command.
		client = &http.Client{Timeout: 2 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("decode release: %w", err)
	}
	if compareVersions(rel.TagName, current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal. Numeric
// dot segments compare as numbers, so 0.10 is newer than 0.2; anything after
// a '-' is ignored.
func compareVersions(v1, v2 string) int {
	a := segments(v1)
	b := segments(v2)
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func segments(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	var out []int
	for _, s := range strings.Split(v, ".") {
		n, _ := strconv.Atoi(s)
		out = append(out, n)
	}
	return out
}
