package resolve

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// addFile writes a file under dir and returns its corpus entry. The
// relative path doubles as the on-disk location.
func addFile(t *testing.T, dir, relPath, content string) core.TrackedFile {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return core.TrackedFile{Path: path, Name: filepath.Base(path), RelPath: relPath}
}

func newTestResolver(root string, corpus []core.TrackedFile, skipExts ...string) *Resolver {
	return New(Config{Root: root, Corpus: corpus, SkipExtensions: skipExts})
}

func TestFindKeyword_NotFound(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.py", "nothing to see\n"),
		addFile(t, dir, "b.txt", "still nothing\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindKeyword("MISSING", filepath.Join(dir, "c.py"))
	assert.Nil(t, match)
}

func TestFindKeyword_ContentMatch(t *testing.T) {
	// Scenario: a.py contains the keyword on line 1, b.txt does not.
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.py", "uses REQ1 here\n"),
		addFile(t, dir, "b.txt", "unrelated\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindKeyword("REQ1", filepath.Join(dir, "c.py"))
	require.NotNil(t, match)
	assert.Equal(t, "a.py", match.Path)
	assert.Equal(t, 1, match.Line)
}

func TestFindKeyword_FilenameIdentity(t *testing.T) {
	// A keyword equal to a file name matches that file with no line
	// number, regardless of the file's content.
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.py", "uses REQ1 here\n"),
		addFile(t, dir, "b.txt", "b.txt mentions itself\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindKeyword("b.txt", filepath.Join(dir, "c.py"))
	require.NotNil(t, match)
	assert.Equal(t, "b.txt", match.Path)
	assert.Equal(t, 0, match.Line)
}

func TestFindKeyword_CorpusOrderBreaksTies(t *testing.T) {
	// The first corpus entry satisfying either rule wins: an earlier
	// content occurrence beats a later filename identity, and the other
	// way around once the order flips.
	dir := t.TempDir()
	mentions := addFile(t, dir, "mentions.md", "see notes.txt for details\n")
	named := addFile(t, dir, "notes.txt", "the notes themselves\n")
	issuer := filepath.Join(dir, "REQ001.yml")

	r := newTestResolver(dir, []core.TrackedFile{mentions, named})
	match := r.FindKeyword("notes.txt", issuer)
	require.NotNil(t, match)
	assert.Equal(t, "mentions.md", match.Path)
	assert.Equal(t, 1, match.Line)

	r = newTestResolver(dir, []core.TrackedFile{named, mentions})
	match = r.FindKeyword("notes.txt", issuer)
	require.NotNil(t, match)
	assert.Equal(t, "notes.txt", match.Path)
	assert.Equal(t, 0, match.Line)
}

func TestFindKeyword_WordBoundary(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		matches bool
	}{
		{name: "between commas", line: "id1,id2", matches: true},
		{name: "line start", line: "id1 starts the line", matches: true},
		{name: "line end", line: "ends with id1", matches: true},
		{name: "whole line", line: "id1", matches: true},
		{name: "longer token", line: "contains id10 only", matches: false},
		{name: "prefixed token", line: "contains xid1 only", matches: false},
		{name: "underscore suffix", line: "contains id1_x only", matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			corpus := []core.TrackedFile{addFile(t, dir, "code.c", tt.line+"\n")}
			r := newTestResolver(dir, corpus)

			match := r.FindKeyword("id1", filepath.Join(dir, "REQ001.yml"))
			if tt.matches {
				require.NotNil(t, match)
				assert.Equal(t, 1, match.Line)
			} else {
				assert.Nil(t, match)
			}
		})
	}
}

func TestFindKeyword_EscapesMetacharacters(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "near.c", "call sysXinit() here\n"),
		addFile(t, dir, "code.c", "call sys.init() here\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindKeyword("sys.init()", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "code.c", match.Path)
}

func TestFindKeyword_SkipExtensions(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "data.dat", "SECRET lives here\n"),
		addFile(t, dir, "img.png", "not really an image\n"),
	}
	r := newTestResolver(dir, corpus, ".dat", ".png")

	// Content inside a skip-listed file is invisible to content search.
	assert.Nil(t, r.FindKeyword("SECRET", filepath.Join(dir, "REQ001.yml")))

	// Filename identity still applies to skip-listed files.
	match := r.FindKeyword("img.png", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "img.png", match.Path)
	assert.Equal(t, 0, match.Line)
}

func TestFindKeyword_SelfExclusion(t *testing.T) {
	// The issuer's own file never matches, even when it is the only
	// file containing the keyword.
	dir := t.TempDir()
	issuer := addFile(t, dir, "REQ001.yml", "text: REQ1 appears only here\n")
	corpus := []core.TrackedFile{issuer}
	r := newTestResolver(dir, corpus)

	assert.Nil(t, r.FindKeyword("REQ1", issuer.Path))
}

func TestFindKeyword_UnreadableSkipped(t *testing.T) {
	dir := t.TempDir()
	gone := core.TrackedFile{
		Path:    filepath.Join(dir, "gone.c"),
		Name:    "gone.c",
		RelPath: "gone.c",
	}
	binary := addFile(t, dir, "blob.c", "REQ1\x00binary\n")

	// Unreadable candidates are skipped without aborting the scan.
	r := newTestResolver(dir, []core.TrackedFile{gone, binary})
	assert.Nil(t, r.FindKeyword("REQ1", filepath.Join(dir, "REQ001.yml")))

	// A later readable candidate still wins.
	ok := addFile(t, dir, "ok.c", "REQ1\n")
	r = newTestResolver(dir, []core.TrackedFile{gone, binary, ok})
	match := r.FindKeyword("REQ1", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "ok.c", match.Path)
	assert.Equal(t, 1, match.Line)
}

func TestFindFile_NoKeyword(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "src/code.c", "int main(void) {}\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindFile("src/code.c", "", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "src/code.c", match.Path)
	assert.Equal(t, 0, match.Line)
}

func TestFindFile_PathNormalized(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "src/code.c", "int main(void) {}\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindFile("src/../src/code.c", "", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "src/code.c", match.Path)
}

func TestFindFile_WithKeyword(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "src/code.c", "int main(void) {\n\treturn REQ1_OK;\n}\n"),
	}
	r := newTestResolver(dir, corpus)

	match := r.FindFile("src/code.c", "REQ1_OK", filepath.Join(dir, "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "src/code.c", match.Path)
	assert.Equal(t, 2, match.Line)
}

func TestFindFile_KeywordMiss(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "src/code.c", "int main(void) {}\n"),
	}
	r := newTestResolver(dir, corpus)

	assert.Nil(t, r.FindFile("src/code.c", "ABSENT", filepath.Join(dir, "REQ001.yml")))
}

func TestFindFile_TargetAbsent(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "src/code.c", "int main(void) {}\n"),
	}
	r := newTestResolver(dir, corpus)

	assert.Nil(t, r.FindFile("src/missing.c", "", filepath.Join(dir, "REQ001.yml")))
}

func TestFindFile_SelfExclusion(t *testing.T) {
	// Referencing the issuer's own file resolves to nothing.
	dir := t.TempDir()
	issuer := addFile(t, dir, "reqs/REQ001.yml", "text: hello\n")
	r := newTestResolver(dir, []core.TrackedFile{issuer})

	assert.Nil(t, r.FindFile("reqs/REQ001.yml", "", issuer.Path))
}

func TestFindFile_UnreadableTarget(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "blob.c", "REQ1\x00binary\n"),
	}
	r := newTestResolver(dir, corpus)

	assert.Nil(t, r.FindFile("blob.c", "REQ1", filepath.Join(dir, "REQ001.yml")))
}

func TestFindPattern_AllMatchesInOrder(t *testing.T) {
	// Two matching files with two matching lines each yield exactly
	// four entries, in corpus-then-line order.
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.c", "REQ1 first\nnothing\nREQ1 again\n"),
		addFile(t, dir, "skip.md", "REQ1 but path does not match\n"),
		addFile(t, dir, "b.c", "REQ1\nREQ1\n"),
	}
	r := newTestResolver(dir, corpus)

	matches, err := r.FindPattern(`\.c$`, "REQ1", filepath.Join(dir, "REQ001.yml"))
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Path: "a.c", Line: 1},
		{Path: "a.c", Line: 3},
		{Path: "b.c", Line: 1},
		{Path: "b.c", Line: 2},
	}, matches)
}

func TestFindPattern_NoMatches(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.c", "nothing relevant\n"),
	}
	r := newTestResolver(dir, corpus)

	matches, err := r.FindPattern(`\.c$`, "ABSENT", filepath.Join(dir, "REQ001.yml"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindPattern_MissingKeyword(t *testing.T) {
	// A search without a keyword is a contract violation, distinct from
	// "not found", and yields no partial result.
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.c", "content\n"),
	}
	r := newTestResolver(dir, corpus)

	matches, err := r.FindPattern(`\.c$`, "", filepath.Join(dir, "REQ001.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeywordRequired)
	assert.Nil(t, matches)
}

func TestFindPattern_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	r := newTestResolver(dir, nil)

	_, err := r.FindPattern(`([`, "REQ1", filepath.Join(dir, "REQ001.yml"))
	assert.Error(t, err)
}

func TestFindPattern_SelfExclusion(t *testing.T) {
	dir := t.TempDir()
	issuer := addFile(t, dir, "a.c", "REQ1\n")
	other := addFile(t, dir, "b.c", "REQ1\n")
	r := newTestResolver(dir, []core.TrackedFile{issuer, other})

	matches, err := r.FindPattern(`\.c$`, "REQ1", issuer.Path)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Path: "b.c", Line: 1}}, matches)
}

func TestFindPattern_UnreadableSkipped(t *testing.T) {
	dir := t.TempDir()
	gone := core.TrackedFile{
		Path:    filepath.Join(dir, "gone.c"),
		Name:    "gone.c",
		RelPath: "gone.c",
	}
	r := newTestResolver(dir, []core.TrackedFile{gone})

	matches, err := r.FindPattern(`\.c$`, "REQ1", filepath.Join(dir, "REQ001.yml"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestResolve_DispatchesByKind(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.c", "REQ1 evidence\n"),
	}
	r := newTestResolver(dir, corpus)
	issuer := filepath.Join(dir, "REQ001.yml")

	res, err := r.Resolve(KeywordQuery{Keyword: "REQ1"}, issuer)
	require.NoError(t, err)
	single, ok := res.(Single)
	require.True(t, ok)
	require.True(t, single.Found())
	assert.Equal(t, "a.c", single.Match.Path)

	res, err = r.Resolve(FileQuery{Path: "a.c"}, issuer)
	require.NoError(t, err)
	single, ok = res.(Single)
	require.True(t, ok)
	require.True(t, single.Found())
	assert.Equal(t, 0, single.Match.Line)

	res, err = r.Resolve(SearchQuery{Pattern: `\.c$`, Keyword: "REQ1"}, issuer)
	require.NoError(t, err)
	multiple, ok := res.(Multiple)
	require.True(t, ok)
	assert.Len(t, multiple.Matches, 1)

	res, err = r.Resolve(KeywordQuery{Keyword: "ABSENT"}, issuer)
	require.NoError(t, err)
	assert.False(t, res.Found())

	_, err = r.Resolve(SearchQuery{Pattern: `\.c$`}, issuer)
	assert.ErrorIs(t, err, ErrKeywordRequired)
}

func TestResolver_ConcurrentUse(t *testing.T) {
	dir := t.TempDir()
	corpus := []core.TrackedFile{
		addFile(t, dir, "a.c", "REQ1 evidence\nREQ2 evidence\n"),
		addFile(t, dir, "b.c", "REQ3 evidence\n"),
	}
	r := newTestResolver(dir, corpus)
	issuer := filepath.Join(dir, "REQ001.yml")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := r.FindKeyword("REQ2", issuer)
			if assert.NotNil(t, m) {
				assert.Equal(t, 2, m.Line)
			}
			matches, err := r.FindPattern(`\.c$`, "REQ3", issuer)
			if assert.NoError(t, err) {
				assert.Len(t, matches, 1)
			}
		}()
	}
	wg.Wait()
}
