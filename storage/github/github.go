package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "github"

var errFileNotFound = fmt.Errorf("file not found on github")

// Storage commits benchmark suites to a GitHub repository, one file per
// suite named by fs.SuiteFilename, next to an fs.IndexName file. Every
// write is a commit on Branch.
type Storage struct {
	// AccessToken is the API token used to authenticate with GitHub (required).
	AccessToken string `json:"access_token"`

	// RepositoryOwner and RepositoryName name the repository; for
	// https://github.com/octocat/kit they are "octocat" and "kit".
	RepositoryOwner string `json:"repository_owner"`
	RepositoryName  string `json:"repository_name"`

	// CommitterName and CommitterEmail sign the commits. They should
	// belong to the owner of AccessToken.
	CommitterName  string `json:"committer_name"`
	CommitterEmail string `json:"committer_email"`

	// Branch is the git branch to commit to (required).
	Branch string `json:"branch"`

	// Dir is the directory of the repository holding the files;
	// empty means the root.
	Dir string `json:"dir"`

	// Suites run more than ResultExpiry ago are deleted by
	// Maintain. Zero keeps every file.
	ResultExpiry time.Duration `json:"result_expiry,omitempty"`

	client *github.Client
}

// New creates a new Storage instance based on json config
func New(config json.RawMessage) (*Storage, error) {
	storage := new(Storage)
	err := json.Unmarshal(config, &storage)
	return storage, err
}

// Type returns the storage driver package name
func (Storage) Type() string {
	return Type
}

func (gh *Storage) ensureClient() error {
	if gh.client != nil {
		return nil
	}
	if gh.AccessToken == "" {
		return errors.New("github: access_token is required")
	}
	gh.client = github.NewClient(oauth2.NewClient(
		context.Background(),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: gh.AccessToken}),
	))
	return nil
}

func (gh *Storage) path(name string) string {
	return path.Join(gh.Dir, path.Base(name))
}

// commit describes a change to name; an empty sha creates the file.
func (gh *Storage) commit(verb, name, sha string, contents []byte) *github.RepositoryContentFileOptions {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("[termbench] %s %s [ci skip]", verb, gh.path(name))),
		Content: contents,
		Committer: &github.CommitAuthor{
			Name:  github.String(gh.CommitterName),
			Email: github.String(gh.CommitterEmail),
		},
	}
	if gh.Branch != "" {
		opts.Branch = github.String(gh.Branch)
	}
	if sha != "" {
		opts.SHA = github.String(sha)
	}
	return opts
}

// get returns the contents of name on Branch and their blob SHA, or
// errFileNotFound.
func (gh *Storage) get(name string) ([]byte, string, error) {
	if err := gh.ensureClient(); err != nil {
		return nil, "", err
	}
	file, _, resp, err := gh.client.Repositories.GetContents(
		context.Background(), gh.RepositoryOwner, gh.RepositoryName, gh.path(name),
		&github.RepositoryContentGetOptions{Ref: "heads/" + gh.Branch},
	)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, "", errFileNotFound
	}
	if err != nil {
		return nil, "", err
	}
	decoded, err := file.GetContent()
	return []byte(decoded), file.GetSHA(), err
}

// put creates name, or replaces the blob sha with contents.
func (gh *Storage) put(name, sha string, contents []byte) error {
	if err := gh.ensureClient(); err != nil {
		return err
	}
	write := gh.client.Repositories.CreateFile
	if sha != "" {
		write = gh.client.Repositories.UpdateFile
	}
	log.WithFields(log.Fields{"file": gh.path(name), "branch": gh.Branch, "update": sha != ""}).Debug("github: writing file")
	_, _, err := write(context.Background(), gh.RepositoryOwner, gh.RepositoryName, gh.path(name), gh.commit("store", name, sha, contents))
	return errors.Wrapf(err, "github: writing %s", name)
}

func (gh *Storage) remove(name, sha string) error {
	if err := gh.ensureClient(); err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": gh.path(name), "branch": gh.Branch}).Debug("github: deleting file")
	_, _, err := gh.client.Repositories.DeleteFile(context.Background(), gh.RepositoryOwner, gh.RepositoryName, gh.path(name), gh.commit("delete", name, sha, nil))
	return errors.Wrapf(err, "github: deleting %s", name)
}

// readIndex returns the index and its blob SHA. A missing index is
// empty.
func (gh *Storage) readIndex() (fs.Index, string, error) {
	index := fs.Index{}
	contents, sha, err := gh.get(fs.IndexName)
	if errors.Is(err, errFileNotFound) {
		return index, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	err = json.Unmarshal(contents, &index)
	return index, sha, errors.Wrap(err, "github: decoding index")
}

func (gh *Storage) writeIndex(index fs.Index, sha string) error {
	contents, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return gh.put(fs.IndexName, sha, contents)
}

// Store commits one file per suite, then the updated index. A suite
// file that already exists, from a run of the same target in the same
// second, is replaced.
func (gh *Storage) Store(suites []types.Suite) error {
	index, indexSHA, err := gh.readIndex()
	if err != nil {
		return err
	}
	for _, suite := range suites {
		contents, err := json.Marshal([]types.Suite{suite})
		if err != nil {
			return err
		}
		name := fs.SuiteFilename(suite)
		var sha string
		if _, ok := index[name]; ok {
			if _, sha, err = gh.get(name); err != nil && !errors.Is(err, errFileNotFound) {
				return err
			}
		}
		if err := gh.put(name, sha, contents); err != nil {
			return err
		}
		index.Add(suite)
	}
	return gh.writeIndex(index, indexSHA)
}

// Fetch reads the suites committed under name.
func (gh *Storage) Fetch(name string) ([]types.Suite, error) {
	contents, _, err := gh.get(name)
	if err != nil {
		return nil, err
	}
	var suites []types.Suite
	if err := json.Unmarshal(contents, &suites); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	return suites, nil
}

// GetIndex returns the result index
func (gh *Storage) GetIndex() (map[string]int64, error) {
	index, _, err := gh.readIndex()
	return index, err
}

// Maintain deletes the indexed suite files run more than
// gh.ResultExpiry ago and commits the shrunk index.
func (gh *Storage) Maintain() error {
	if gh.ResultExpiry == 0 {
		return nil
	}

	index, indexSHA, err := gh.readIndex()
	if err != nil {
		return err
	}
	expired := index.Expired(time.Now(), gh.ResultExpiry)
	if len(expired) == 0 {
		return nil
	}

	for _, name := range expired {
		_, sha, err := gh.get(name)
		switch {
		case errors.Is(err, errFileNotFound):
			log.WithField("file", gh.path(name)).Debug("github: maintain: already gone")
		case err != nil:
			return err
		default:
			if err := gh.remove(name, sha); err != nil {
				return err
			}
		}
		delete(index, name)
	}
	return gh.writeIndex(index, indexSHA)
}
