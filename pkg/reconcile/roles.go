// Package reconcile derives named remote bindings from a sub-project's
// ordered location list and applies the minimal set of changes needed to make
// live remote state match.
//
// The positional role rule: the first url of an entry is bound as upstream,
// the last as origin, and interior urls are mirrors with stable synthetic
// names. An entry with a single url gets origin only; there is no separate
// upstream to name.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/grammarforge/submodsync/pkg/modules"
)

// Reserved remote role names.
const (
	RemoteUpstream = "upstream"
	RemoteOrigin   = "origin"
)

// Binding associates one remote name with the url it should point to.
type Binding struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// DesiredBindings applies the positional role rule to a module's url list.
//
// The result is deterministic and depends only on index positions:
//
//	n == 1: origin -> urls[0]
//	n >= 2: upstream -> urls[0], origin -> urls[n-1],
//	        mirrors for everything between
//
// upstream and origin are never bound to two different urls for one module.
func DesiredBindings(m *modules.Module) []Binding {
	n := len(m.URLs)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Binding{{Name: RemoteOrigin, URL: m.URLs[0]}}
	}

	bindings := make([]Binding, 0, n)
	bindings = append(bindings, Binding{Name: RemoteUpstream, URL: m.URLs[0]})

	taken := map[string]bool{RemoteUpstream: true, RemoteOrigin: true}
	for i := 1; i < n-1; i++ {
		name := mirrorName(m.URLs[i], i, taken)
		taken[name] = true
		bindings = append(bindings, Binding{Name: name, URL: m.URLs[i]})
	}

	bindings = append(bindings, Binding{Name: RemoteOrigin, URL: m.URLs[n-1]})
	return bindings
}

// RoleNames returns the remote names the role rule may assign for a module.
// Remotes outside this set are never touched by reconciliation.
func RoleNames(m *modules.Module) map[string]bool {
	names := make(map[string]bool)
	for _, b := range DesiredBindings(m) {
		names[b.Name] = true
	}
	return names
}

// mirrorName derives a stable name for an interior mirror url: the owner
// segment of the url when one can be extracted, otherwise mirrorN where N is
// the url's index. A derived name already claimed by another binding falls
// back to the indexed form as well.
func mirrorName(url string, index int, taken map[string]bool) string {
	if owner := ownerSegment(url); owner != "" && !taken[owner] {
		return owner
	}
	name := fmt.Sprintf("mirror%d", index)
	for taken[name] {
		name += "x"
	}
	return name
}

// ownerSegment extracts the first path element after the host from a remote
// url, covering both scp-like (git@host:owner/repo) and scheme
// (https://host/owner/repo) forms.
func ownerSegment(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		// scheme form: drop scheme and host
		rest = rest[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = rest[j+1:]
		} else {
			return ""
		}
	} else if i := strings.IndexByte(rest, ':'); i >= 0 {
		// scp-like form: owner starts after the colon
		rest = rest[i+1:]
	} else if i := strings.IndexByte(rest, '/'); i >= 0 {
		// bare host/owner/repo or a local path
		rest = rest[i+1:]
	} else {
		return ""
	}

	rest = strings.TrimPrefix(rest, "/")
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
