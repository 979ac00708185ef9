package gitrepo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/loose-end/internal/domain"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   domain.RepositoryRef
		ok     bool
	}{
		{
			name:   "scp-like ssh with .git",
			remote: "git@github.com:robby/loose-end.git",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "scp-like ssh without .git",
			remote: "git@github.com:robby/loose-end",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "ssh protocol",
			remote: "ssh://git@github.com/robby/loose-end.git",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "https with .git",
			remote: "https://github.com/robby/loose-end.git",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "https without .git",
			remote: "https://github.com/robby/loose-end",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "https with trailing slash",
			remote: "https://github.com/robby/loose-end/",
			want:   domain.RepositoryRef{Owner: "robby", Name: "loose-end"},
			ok:     true,
		},
		{
			name:   "enterprise host",
			remote: "git@github.example.com:platform/tools.git",
			want:   domain.RepositoryRef{Owner: "platform", Name: "tools"},
			ok:     true,
		},
		{
			name:   "missing repo segment",
			remote: "https://github.com/robby",
			ok:     false,
		},
		{
			name:   "garbage",
			remote: "not a url",
			ok:     false,
		},
		{
			name:   "empty",
			remote: "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.remote)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NotAGitRepository(t *testing.T) {
	loc := NewLocatorWithRunner(func(args ...string) (string, error) {
		return "", errors.New("exit status 128")
	})

	_, err := loc.Resolve()
	assert.ErrorIs(t, err, domain.ErrNotAGitRepository)
}

func TestResolve_NoRemoteConfigured(t *testing.T) {
	loc := NewLocatorWithRunner(func(args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		return "", errors.New("exit status 1")
	})

	_, err := loc.Resolve()
	assert.ErrorIs(t, err, domain.ErrNoRemoteConfigured)
}

func TestResolve_UnparseableRemote(t *testing.T) {
	loc := NewLocatorWithRunner(func(args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		return "file:///tmp/mirror", nil
	})

	_, err := loc.Resolve()
	assert.ErrorIs(t, err, domain.ErrNoRemoteConfigured)
}

func TestResolve_Success(t *testing.T) {
	loc := NewLocatorWithRunner(func(args ...string) (string, error) {
		if args[0] == "rev-parse" {
			return "true", nil
		}
		return "git@github.com:acme/widgets.git", nil
	})

	ref, err := loc.Resolve()
	require.NoError(t, err)
	assert.Equal(t, domain.RepositoryRef{Owner: "acme", Name: "widgets"}, ref)
}
