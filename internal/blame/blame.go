// Package blame enriches SARIF results with git blame information, so that
// issues can be filtered and reported by author.
package blame

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/statice-dev/sarq/core"
	"github.com/statice-dev/sarq/internal/contract"
)

// cacheVersion invalidates cached blame output when the porcelain parsing
// or storage format changes.
const cacheVersion = 1

// fileBlameInfo is the parsed `git blame --porcelain` output for one file.
type fileBlameInfo struct {
	// Commits maps commit hash to the header key/value pairs emitted for it
	// (author, author-mail, committer, summary, ...). Valueless headers such
	// as "boundary" are stored as true.
	Commits map[string]map[string]any `json:"commits"`

	// LineToCommit maps final line number (as a string) to commit hash.
	LineToCommit map[string]string `json:"line_to_commit"`
}

// Enricher runs git blame over the files referenced by a SARIF set and
// attaches the per-line commit data to each result's property bag.
type Enricher struct {
	client contract.GitClient
	store  contract.BlameStore
}

// NewEnricher creates an enricher. The store may be a no-op backend, in
// which case every file is blamed afresh.
func NewEnricher(client contract.GitClient, store contract.BlameStore) *Enricher {
	return &Enricher{client: client, store: store}
}

// EnhanceWithBlame runs `git blame --porcelain` for each file path listed in
// the set's records, then adds a "blame" property with the commit data to
// every result whose file and line could be attributed. Returns the number
// of results enriched and the total number of results.
func (e *Enricher) EnhanceWithBlame(ctx context.Context, fileSet *core.FileSet, repoPath string) (int, int, error) {
	records, err := fileSet.Records()
	if err != nil {
		return 0, 0, err
	}
	filesToBlame := map[string]bool{}
	for _, record := range records {
		filesToBlame[record.Location] = true
	}

	repoHash, err := e.client.GetRepoHash(ctx, repoPath)
	if err != nil {
		return 0, 0, err
	}

	fileInfo := map[string]*fileBlameInfo{}
	for filePath := range filesToBlame {
		info, err := e.blameFile(ctx, repoPath, repoHash, filePath)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("git blame failed for %s", filePath), err)
			continue
		}
		fileInfo[filePath] = info
	}

	// Join blame output with the result list. Results and records are
	// parallel lists within each run.
	blameInfoCount := 0
	itemCount := 0
	for _, run := range fileSet.Runs() {
		runRecords, err := run.Records()
		if err != nil {
			return blameInfoCount, itemCount, err
		}
		results := run.Results()
		for i, result := range results {
			if i >= len(runRecords) {
				break
			}
			itemCount++
			record := runRecords[i]
			info := fileInfo[record.Location]
			if info == nil || record.Line == "" {
				continue
			}
			hash, ok := info.LineToCommit[record.Line]
			if !ok {
				continue
			}
			commit := info.Commits[hash]
			if commit == nil {
				continue
			}
			properties, ok := result["properties"].(map[string]any)
			if !ok {
				properties = map[string]any{}
				result["properties"] = properties
			}
			properties["blame"] = commit
			blameInfoCount++
		}
	}
	return blameInfoCount, itemCount, nil
}

// blameFile returns the parsed blame data for one file, consulting the
// cache first. The cache key includes the repository HEAD hash, so any new
// commit invalidates all cached entries for the repository.
func (e *Enricher) blameFile(ctx context.Context, repoPath, repoHash, filePath string) (*fileBlameInfo, error) {
	key := repoHash + "|" + filePath
	if cached, version, _, err := e.store.Get(key); err == nil && version == cacheVersion {
		var info fileBlameInfo
		if err := json.Unmarshal(cached, &info); err == nil {
			return &info, nil
		}
	}

	out, err := e.client.GetBlamePorcelain(ctx, repoPath, filePath)
	if err != nil {
		return nil, err
	}
	info := parsePorcelain(out)

	if encoded, err := json.Marshal(info); err == nil {
		if err := e.store.Set(key, encoded, cacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("cannot cache blame output", err)
		}
	}
	return info, nil
}

// parsePorcelain parses `git blame --porcelain` output. Porcelain format is
// used for parseability and stability; see the git-blame documentation.
func parsePorcelain(output []byte) *fileBlameInfo {
	info := &fileBlameInfo{
		Commits:      map[string]map[string]any{},
		LineToCommit: map[string]string{},
	}
	readingCommitHeaders := false
	commitHash := ""
	for _, line := range strings.Split(string(output), "\n") {
		if readingCommitHeaders {
			if strings.HasPrefix(line, "\t") {
				// Line contents = source code, ends the header block
				readingCommitHeaders = false
			} else if spacePos := strings.Index(line, " "); spacePos >= 0 {
				key := line[:spacePos]
				value := strings.TrimSpace(line[spacePos+1:])
				info.Commits[commitHash][key] = value
			} else if line != "" {
				// e.g. "boundary"
				info.Commits[commitHash][line] = true
			}
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) < 3 {
			continue
		}
		commitHash = fields[0]
		commitLine := fields[2]
		if info.Commits[commitHash] == nil {
			info.Commits[commitHash] = map[string]any{}
		}
		info.LineToCommit[commitLine] = commitHash
		readingCommitHeaders = true
	}
	return info
}
