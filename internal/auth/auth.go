// Package auth provides GitHub authentication token management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, complex implementation hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/robby/loose-end/internal/domain"
)

// TokenProvider defines the interface for obtaining a GitHub authentication token.
// Implementations may use different sources (environment, CLI tools, prompts).
type TokenProvider interface {
	GetToken() (string, error)
}

// Environment variables checked for a token, in preference order.
var envVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// EnvProvider obtains tokens from the environment.
type EnvProvider struct{}

// GetToken returns the first non-empty token among the known variables.
func (e *EnvProvider) GetToken() (string, error) {
	for _, key := range envVars {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return token, nil
		}
	}
	return "", errors.New("GITHUB_TOKEN environment variable not set or empty")
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
// This respects the user's gh CLI authentication state.
type GhCliProvider struct{}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}
	return token, nil
}

// PromptFunc reads a secret from the user without echoing it.
type PromptFunc func(label string) (string, error)

// PromptProvider asks the user for a token with masked input. It is only
// usable when a terminal is attached.
type PromptProvider struct {
	Prompt PromptFunc
}

// GetToken prompts the user once for a personal access token.
func (p *PromptProvider) GetToken() (string, error) {
	token, err := p.Prompt("GitHub personal access token")
	if err != nil {
		return "", fmt.Errorf("token prompt failed: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("empty token entered")
	}
	return token, nil
}

// Resolver chains token providers: environment first, then gh CLI, then
// a masked prompt when a terminal is attached. The chain never echoes
// the token anywhere; only the winning source name is reported.
type Resolver struct {
	// Interactive allows the prompt fallback. When false and no other
	// source yields a token, Resolve fails with domain.ErrMissingCredentials.
	Interactive bool
	// Prompt implements the masked prompt; required when Interactive.
	Prompt PromptFunc

	// Overridable providers for tests.
	env TokenProvider
	cli TokenProvider
}

// NewResolver builds the default provider chain.
func NewResolver(interactive bool, prompt PromptFunc) *Resolver {
	return &Resolver{
		Interactive: interactive,
		Prompt:      prompt,
		env:         &EnvProvider{},
		cli:         &GhCliProvider{},
	}
}

// Resolve returns credentials from the first provider that yields a token.
func (r *Resolver) Resolve() (domain.Credentials, error) {
	if token, err := r.env.GetToken(); err == nil {
		return domain.Credentials{Token: token, Source: "environment"}, nil
	}

	if token, err := r.cli.GetToken(); err == nil {
		return domain.Credentials{Token: token, Source: "gh CLI"}, nil
	}

	if r.Interactive && r.Prompt != nil {
		provider := &PromptProvider{Prompt: r.Prompt}
		token, err := provider.GetToken()
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("%w: %v", domain.ErrMissingCredentials, err)
		}
		return domain.Credentials{Token: token, Source: "prompt"}, nil
	}

	return domain.Credentials{}, fmt.Errorf(
		"%w: set the GITHUB_TOKEN environment variable or run 'gh auth login'",
		domain.ErrMissingCredentials,
	)
}
