package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/textract-annotator/internal/annotate"
	"github.com/MeKo-Tech/textract-annotator/internal/source"
)

// discoverFiles finds all supported documents among args. Directories are
// walked, S3 URIs are passed through, and previous annotated outputs are
// always skipped.
func discoverFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		if source.IsS3(arg) {
			if shouldIncludeFile(arg, includePatterns, excludePatterns) {
				files = append(files, arg)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else if shouldIncludeFile(arg, includePatterns, excludePatterns) {
			files = append(files, arg)
		}
	}

	return files, nil
}

// discoverInDirectory walks dir, descending into subdirectories only when recursive.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// shouldIncludeFile determines if a file should be processed.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if _, err := annotate.FormatFor(path); err != nil {
		return false
	}
	if annotate.IsAnnotatedOutput(path) {
		return false
	}

	// Check exclude patterns first
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	// If no include patterns, include all (that aren't excluded)
	if len(includePatterns) == 0 {
		return true
	}

	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if the base name of path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// outputFor returns where the annotated copy of input goes. With an output
// directory the derived file name is placed there; otherwise the processor
// derives it next to the input.
func outputFor(input, outputDir string) string {
	if outputDir == "" {
		return ""
	}
	name := filepath.Base(annotate.OutputPath(input, ""))
	if source.IsS3(outputDir) {
		return outputDir + "/" + name
	}
	return filepath.Join(outputDir, name)
}
