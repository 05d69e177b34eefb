// Package classify groups pods into components by their name tokens.
//
// The grouping only looks at the pod name. Workload labels and owner references
// are not consulted, so components that follow different naming conventions can
// land in the wrong group.
package classify

import "strings"

const separator = "-"

// DefaultCompoundPrefixes are products whose component name spans two tokens.
var DefaultCompoundPrefixes = []string{"mimir"}

type Classifier struct {
	compound map[string]struct{}
}

// New returns a classifier that joins the first two name tokens when the first
// one is in compoundPrefixes.
func New(compoundPrefixes []string) *Classifier {
	c := &Classifier{compound: make(map[string]struct{}, len(compoundPrefixes))}
	for _, p := range compoundPrefixes {
		p = strings.TrimSpace(p)
		if p != "" {
			c.compound[p] = struct{}{}
		}
	}
	return c
}

// Classify maps a pod name to its component name.
func (c *Classifier) Classify(podName string) string {
	tokens := strings.Split(podName, separator)
	if len(tokens) == 1 {
		return podName
	}
	if _, ok := c.compound[tokens[0]]; ok && tokens[1] != "" {
		return tokens[0] + separator + tokens[1]
	}
	return tokens[0]
}
