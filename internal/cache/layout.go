package cache

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Directory names inside a repository folder of the hub cache.
const (
	refsDir      = "refs"
	snapshotsDir = "snapshots"
	noExistDir   = ".no_exist"
)

// DefaultRevision is the ref looked up when no revision is requested.
const DefaultRevision = "main"

// RepoType is the kind of hub repository a cache folder belongs to.
type RepoType string

// Supported repository types.
const (
	RepoTypeModel   RepoType = "model"
	RepoTypeDataset RepoType = "dataset"
	RepoTypeSpace   RepoType = "space"
)

// ParseRepoType converts a user supplied repo type. An empty string means model.
func ParseRepoType(s string) (RepoType, error) {
	switch t := RepoType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return RepoTypeModel, nil
	case RepoTypeModel, RepoTypeDataset, RepoTypeSpace:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (expected model, dataset or space)", ErrInvalidRepoType, s)
	}
}

// validRepoID mirrors the hub's identifier rules: an optional owner and a name
// of at most 96 characters, each starting and ending with a word character.
var validRepoID = regexp.MustCompile(`^(?:[\pL\pN_](?:[\pL\pN_.-]*[\pL\pN_])?/)?[\pL\pN_](?:[\pL\pN_.-]{0,94}[\pL\pN_])?$`)

// ValidateRepoID reports whether repoID is a well-formed hub repository identifier.
func ValidateRepoID(repoID string) error {
	if !validRepoID.MatchString(repoID) {
		return fmt.Errorf("%w: %q", ErrInvalidRepoID, repoID)
	}
	if strings.Contains(repoID, "--") || strings.Contains(repoID, "..") {
		return fmt.Errorf("%w: %q cannot contain '--' or '..'", ErrInvalidRepoID, repoID)
	}
	if strings.HasSuffix(repoID, ".git") {
		return fmt.Errorf("%w: %q cannot end with '.git'", ErrInvalidRepoID, repoID)
	}
	return nil
}

// RepoFolderName returns the cache folder name for a repository,
// e.g. "models--meta-llama--Llama-2-7b-hf".
func RepoFolderName(repoID string, repoType RepoType) string {
	parts := append([]string{string(repoType) + "s"}, strings.Split(repoID, "/")...)
	return strings.Join(parts, "--")
}

// localPath converts a hub relative path (always '/' separated) into a
// relative OS path. It returns false for paths that would leave their parent.
func localPath(rel string) (string, bool) {
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, `\`) {
		return "", false
	}
	for _, elem := range strings.Split(rel, "/") {
		if elem == "" || elem == "." || elem == ".." {
			return "", false
		}
	}
	return filepath.FromSlash(rel), true
}
