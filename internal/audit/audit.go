// Package audit scans Go source trees for logging practices that tend to
// leak sensitive data and renders an HTML compliance report with a security
// score (the percentage of clean files).
package audit

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// Issue is one flagged line in a scanned file.
type Issue struct {
	Line        int
	Description string
}

// FileReport groups the issues of a single file.
type FileReport struct {
	Path   string
	Issues []Issue
}

// Summary is the outcome of a directory scan.
type Summary struct {
	FilesScanned int
	FilesFlagged int
	Score        int
	Files        []FileReport
}

type riskyPattern struct {
	re   *regexp.Regexp
	desc string
}

var riskyPatterns = []riskyPattern{
	{regexp.MustCompile(`\bfmt\.Print(ln|f)?\(`), "fmt.Print* instead of structured logging"},
	{regexp.MustCompile(`(?i)log.*\.(Print|Info|Debug)\w*\(.*\buser\b`), "logging user object directly"},
	{regexp.MustCompile(`(?i)log.*\.(Print|Info|Debug)\w*\(.*\bemail\b`), "logging email directly"},
	{regexp.MustCompile(`(?i)log.*\.(Print|Info|Debug)\w*\(.*\bcpf\b`), "logging CPF directly"},
	{regexp.MustCompile(`(?i)log.*\.(Print|Info|Debug)\w*\(.*\bpassword\b`), "logging password directly"},
	{regexp.MustCompile(`\bspew\.Dump\(`), "debug dump left in code"},
	{regexp.MustCompile(`\bruntime/pprof\b.*StartCPUProfile`), "profiler left enabled"},
}

// Scanner walks source trees and flags risky lines.
type Scanner struct{}

// NewScanner creates an audit scanner.
func NewScanner() *Scanner { return &Scanner{} }

// ScanReader scans a single source stream. path is used for reporting only.
func (s *Scanner) ScanReader(path string, r io.Reader) (FileReport, error) {
	report := FileReport{Path: path}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		for _, p := range riskyPatterns {
			if p.re.MatchString(text) {
				report.Issues = append(report.Issues, Issue{Line: line, Description: p.desc})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return report, fmt.Errorf("scan %s: %w", path, err)
	}
	return report, nil
}

// ScanDir walks root and scans every .go file, skipping test files and
// vendored code.
func (s *Scanner) ScanDir(fsys fs.FS, root string) (Summary, error) {
	sum := Summary{}
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "vendor" || name == ".git" || name == "testdata" {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		f, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		report, err := s.ScanReader(path, f)
		if err != nil {
			return err
		}
		sum.FilesScanned++
		if len(report.Issues) > 0 {
			sum.FilesFlagged++
			sum.Files = append(sum.Files, report)
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	sum.Score = Score(sum.FilesScanned, sum.FilesFlagged)
	return sum, nil
}

// Score computes the security score: the percentage of clean files.
// An empty scan counts as fully compliant.
func Score(scanned, flagged int) int {
	if scanned == 0 {
		return 100
	}
	return (scanned - flagged) * 100 / scanned
}

// RenderHTML renders the summary as a standalone report page.
func RenderHTML(sum Summary) string {
	var b strings.Builder
	b.WriteString("<html><head><title>OPAQUE Compliance Report</title>")
	b.WriteString("<style>body{font-family:sans-serif;padding:20px;} .issue{color:red;} .safe{color:green;}</style></head><body>")
	b.WriteString("<h1>OPAQUE Compliance Report</h1>")

	class := "issue"
	if sum.Score > 90 {
		class = "safe"
	}
	fmt.Fprintf(&b, "<h2>Security Score: <span class='%s'>%d%%</span></h2>", class, sum.Score)
	fmt.Fprintf(&b, "<p>Scanned %d files. Found issues in %d files.</p>", sum.FilesScanned, sum.FilesFlagged)

	for _, fr := range sum.Files {
		fmt.Fprintf(&b, "<h3>%s</h3><ul>", html.EscapeString(fr.Path))
		for _, issue := range fr.Issues {
			fmt.Fprintf(&b, "<li class='issue'>Line %d: %s</li>", issue.Line, html.EscapeString(issue.Description))
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
