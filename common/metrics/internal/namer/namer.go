/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package namer

import (
	"strings"

	"github.com/entrolab/entropyd/common/metrics"
)

// Namer computes statsd bucket names from the format template carried on
// metric options. A template mixes literal text with references of the form
// %{ref}, where ref is one of the built-in fields #namespace, #subsystem,
// #name, and #fqname, or the name of a declared label.
type Namer struct {
	namespace  string
	subsystem  string
	name       string
	nameFormat string
	labelNames map[string]struct{}
}

func NewCounterNamer(c metrics.CounterOpts) *Namer {
	return newNamer(c.Namespace, c.Subsystem, c.Name, c.StatsdFormat, c.LabelNames)
}

func NewGaugeNamer(g metrics.GaugeOpts) *Namer {
	return newNamer(g.Namespace, g.Subsystem, g.Name, g.StatsdFormat, g.LabelNames)
}

func NewHistogramNamer(h metrics.HistogramOpts) *Namer {
	return newNamer(h.Namespace, h.Subsystem, h.Name, h.StatsdFormat, h.LabelNames)
}

func newNamer(namespace, subsystem, name, format string, labelNames []string) *Namer {
	known := make(map[string]struct{}, len(labelNames))
	for _, l := range labelNames {
		known[l] = struct{}{}
	}
	return &Namer{
		namespace:  namespace,
		subsystem:  subsystem,
		name:       name,
		nameFormat: format,
		labelNames: known,
	}
}

func (n *Namer) FullyQualifiedName() string {
	parts := make([]string, 0, 3)
	if n.namespace != "" {
		parts = append(parts, n.namespace)
	}
	if n.subsystem != "" {
		parts = append(parts, n.subsystem)
	}
	return strings.Join(append(parts, n.name), ".")
}

// Format renders the template against the provided label values. Counters and
// gauges format a name on every emission, so the template is scanned directly
// without a regexp.
func (n *Namer) Format(labelValues ...string) string {
	labels := n.labelsToMap(labelValues)

	var out strings.Builder
	rest := n.nameFormat
	for {
		open := strings.Index(rest, "%{")
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open:]

		key, ok := scanReference(rest)
		if !ok {
			// Not a well formed reference. Emit the percent sign and
			// resume the scan behind it.
			out.WriteByte('%')
			rest = rest[1:]
			continue
		}
		out.WriteString(n.resolve(key, labels))
		rest = rest[len(key)+3:]
	}
	return out.String()
}

// scanReference reads a %{ref} at the start of s and returns the reference
// name. ok is false when the braces do not enclose a valid name.
func scanReference(s string) (key string, ok bool) {
	i := 2
	for i < len(s) && isReferenceChar(s[i]) {
		i++
	}
	if i == 2 || i == len(s) || s[i] != '}' {
		return "", false
	}
	return s[2:i], true
}

func isReferenceChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '#', c == '?', c == '_':
		return true
	}
	return false
}

func (n *Namer) resolve(key string, labels map[string]string) string {
	switch key {
	case "#namespace":
		return n.namespace
	case "#subsystem":
		return n.subsystem
	case "#name":
		return n.name
	case "#fqname":
		return n.FullyQualifiedName()
	}

	value, ok := labels[key]
	if !ok {
		panic("invalid label in name format: " + key)
	}
	return sanitizeValue(value)
}

// sanitizeValue rewrites the characters statsd assigns meaning to, and the
// whitespace that would corrupt a plaintext record, to underscores.
func sanitizeValue(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '|', ':', ' ', '\t', '\n', '\f', '\r':
			return '_'
		}
		return r
	}, value)
}

func (n *Namer) labelsToMap(labelValues []string) map[string]string {
	labels := map[string]string{}
	for len(labelValues) > 0 {
		key := labelValues[0]
		if _, ok := n.labelNames[key]; !ok {
			panic("invalid label name: " + key)
		}
		if len(labelValues) == 1 {
			labels[key] = "unknown"
			break
		}
		labels[key] = labelValues[1]
		labelValues = labelValues[2:]
	}
	return labels
}
