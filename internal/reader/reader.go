package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/forensix/log-inspector/internal/domain"
)

// Input formats. A .vlog container is newline-delimited entries and is
// treated identically to .log/.txt; only the format label differs. A .gz
// suffix on any of them is unwrapped transparently.
var supportedExtensions = map[string]bool{
	".log":  true,
	".txt":  true,
	".vlog": true,
}

// Discover resolves the configured input paths into concrete log files.
// A path may be a single file or a directory, which is walked recursively
// for supported extensions. Inaccessible entries are skipped with a warning,
// not fatal: partial input is better than no analysis.
func Discover(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input path %s: %w", path, err)
		}

		if !info.IsDir() {
			if !supported(path) {
				return nil, fmt.Errorf("unsupported input file %s (want .log/.txt/.vlog, optionally .gz)", path)
			}
			files = append(files, path)
			continue
		}

		log.Info().Str("dir", path).Msg("Scanning for log files...")
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("Skipping inaccessible path")
				return nil
			}
			if !fi.IsDir() && supported(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", path, err)
		}
	}

	log.Info().Int("files", len(files)).Msg("Input discovery complete")
	return files, nil
}

// ReadLines reads one log file into raw lines, 1-based line numbers,
// gzip unwrapped when the file name ends in .gz. The format label carried
// on each line is the uppercased source extension (LOG, TXT, VLOG).
func ReadLines(path string) ([]domain.RawLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	format := FormatLabel(path)

	var lines []domain.RawLine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		lines = append(lines, domain.RawLine{
			Number: num,
			Text:   scanner.Text(),
			Format: format,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Debug().Str("file", path).Int("lines", len(lines)).Msg("Read input file")
	return lines, nil
}

// ReadAll reads every file in order, concatenating their lines. Line
// numbers restart per file; SourceLine traceability is per source file.
func ReadAll(files []string) ([]domain.RawLine, error) {
	var all []domain.RawLine
	for _, f := range files {
		lines, err := ReadLines(f)
		if err != nil {
			return nil, err
		}
		all = append(all, lines...)
	}
	return all, nil
}

// FormatLabel returns the uppercased extension of the underlying log file,
// ignoring a trailing .gz.
func FormatLabel(path string) string {
	base := strings.ToLower(path)
	base = strings.TrimSuffix(base, ".gz")
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return strings.ToUpper(ext)
}

func supported(path string) bool {
	base := strings.ToLower(path)
	base = strings.TrimSuffix(base, ".gz")
	return supportedExtensions[filepath.Ext(base)]
}
