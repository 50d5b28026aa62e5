package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

type TokenSource string

const (
	TokenSourceFlag TokenSource = "flag"
	TokenSourceEnv  TokenSource = "env:GITHUB_TOKEN"
	TokenSourceGh   TokenSource = "gh"
)

// ResolveToken resolves the GitHub access token for a run.
//
// Precedence:
//  1. provided (the --token flag, if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token -h github.com`
//
// It never prints the token. An empty token with a nil error means no source
// had one; collection then runs unauthenticated against public data.
func ResolveToken(ctx context.Context, provided string) (token string, source TokenSource, err error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, TokenSourceFlag, nil
	}

	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, TokenSourceEnv, nil
	}

	tok, ok, err := tokenFromGhCLI(ctx)
	if err != nil {
		return "", "", err
	}
	if ok {
		return tok, TokenSourceGh, nil
	}
	return "", "", nil
}

func tokenFromGhCLI(ctx context.Context) (token string, ok bool, err error) {
	if _, lookErr := exec.LookPath("gh"); lookErr != nil {
		return "", false, nil
	}

	// Keep this bounded so a broken gh config or credential helper doesn't
	// hang the run before it even starts.
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	cmd.Env = append(os.Environ(), "GH_PAGER=cat")
	out, runErr := cmd.Output()
	if runErr != nil {
		if cmdCtx.Err() != nil {
			return "", false, cmdCtx.Err()
		}
		// gh installed but not logged in (or otherwise failing) means "no
		// token" here; the raw gh output is not surfaced.
		return "", false, nil
	}

	tok := strings.TrimSpace(string(out))
	if tok == "" {
		return "", false, nil
	}
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", false, errors.New("invalid token returned by gh: contains whitespace")
	}
	return tok, true, nil
}
