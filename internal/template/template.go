// Package template expands `<name>` placeholders in command templates using
// the process environment and interactive prompts.
package template

import (
	"os"
	"regexp"
	"strings"
)

// placeholderPattern matches `<name>` tokens
var placeholderPattern = regexp.MustCompile(`<([A-Za-z0-9_]+)>`)

// Origin tells where a resolved value came from
type Origin int

const (
	Environment Origin = iota
	Stored
	UserEntered
)

// Binding is one resolved placeholder
type Binding struct {
	Name   string
	Value  string
	Origin Origin
}

// Env is the variable environment consulted and updated during resolution
type Env interface {
	Lookup(name string) (string, bool)
	Set(name, value string) error
}

// Prompter asks the user for a value, showing the current one as default
type Prompter interface {
	Prompt(name, current string) (string, error)
}

// OSEnv is the process environment
type OSEnv struct{}

func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (OSEnv) Set(name, value string) error {
	return os.Setenv(name, value)
}

// Names returns the distinct placeholder names of a template in order of first
// appearance
func Names(template string) []string {
	var names []string
	seen := map[string]bool{}

	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}

	return names
}

// HasPlaceholders reports whether the template contains at least one `<name>`
func HasPlaceholders(template string) bool {
	return placeholderPattern.MatchString(template)
}

// Resolver turns templates into executable commands
type Resolver struct {
	Env      Env
	Prompter Prompter
	Stored   map[string]bool // Names whose environment value came from the store
	Bindings []Binding       // Bindings of the last Resolve call
}

// NewResolver creates a resolver over the process environment
func NewResolver(prompter Prompter) *Resolver {
	return &Resolver{Env: OSEnv{}, Prompter: prompter, Stored: map[string]bool{}}
}

// Resolve replaces every placeholder with a value. Each distinct name is
// prompted once, in order of first appearance, with its environment value as
// default; the final value is exported to the environment. Substituted values are
// inserted literally and never rescanned. The boolean is true when the template
// contained at least one placeholder.
func (resolver *Resolver) Resolve(template string) (string, bool) {
	resolver.Bindings = nil
	resolved := map[string]string{}

	var builder strings.Builder
	rest := template
	substituted := false

	for {
		location := placeholderPattern.FindStringSubmatchIndex(rest)
		if location == nil {
			break
		}

		substituted = true
		name := rest[location[2]:location[3]]

		value, done := resolved[name]
		if !done {
			value = resolver.resolveName(name)
			resolved[name] = value
		}

		builder.WriteString(rest[:location[0]])
		builder.WriteString(value)
		rest = rest[location[1]:]
	}

	if !substituted {
		return template, false
	}

	builder.WriteString(rest)
	return builder.String(), true
}

// resolveName determines, prompts and exports the value of a single name
func (resolver *Resolver) resolveName(name string) string {
	current, _ := resolver.Env.Lookup(name)

	origin := Environment
	if resolver.Stored[name] {
		origin = Stored
	}

	value := current
	if resolver.Prompter != nil {
		// a failed read counts as an empty answer
		if answer, err := resolver.Prompter.Prompt(name, current); err == nil && answer != "" {
			value = answer
			origin = UserEntered
		}
	}

	resolver.Env.Set(name, value)
	resolver.Bindings = append(resolver.Bindings, Binding{Name: name, Value: value, Origin: origin})
	return value
}
