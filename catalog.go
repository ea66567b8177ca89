package dotedit

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/dotedit/palette"
)

// Catalog keeps a LevelDB in step with the image and palette files in a
// directory tree.
type Catalog struct {
	mu     sync.Mutex
	db     *LevelDB
	logger *log.Logger
}

// NewCatalog returns a Catalog that records files into db.
func NewCatalog(db *LevelDB, logger *log.Logger) *Catalog {
	return &Catalog{
		db:     db,
		logger: logger,
	}
}

// Ignore anything bigger than the largest possible image file
const maxFileSize = 1 << 20

type fileKind int

const (
	otherFile fileKind = iota
	levelFile
	paletteFile
)

var levelExtensions = []string{".dlvx.bmp", ".dlv.bmp", ".bmp"}

const paletteExtension = ".hex"

func classify(file string) (fileKind, string) {
	base := filepath.Base(file)
	lower := strings.ToLower(base)
	for _, ext := range levelExtensions {
		if strings.HasSuffix(lower, ext) && len(base) > len(ext) {
			return levelFile, base[:len(base)-len(ext)]
		}
	}
	if strings.HasSuffix(lower, paletteExtension) && len(base) > len(paletteExtension) {
		return paletteFile, base[:len(base)-len(paletteExtension)]
	}
	return otherFile, ""
}

func hidden(file string) bool {
	return strings.HasPrefix(filepath.Base(file), ".")
}

// importFile adds a single file to the catalog. Files that are not valid
// images or palettes are logged and skipped.
func (c *Catalog) importFile(file string) error {
	kind, name := classify(file)
	switch kind {
	case levelFile:
		img, err := Load(file)
		if err != nil {
			if errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrInvalidDimensions) {
				c.logger.Printf("Skipping \"%s\": %v\n", file, err)
				return nil
			}
			return err
		}
		// Levels are keyed by name alone so files with the same name in
		// different directories replace each other
		c.mu.Lock()
		defer c.mu.Unlock()
		before, err := c.db.FindLevelInfo(name)
		if err != nil {
			return err
		}
		if _, err := c.db.AddLevel(name, img); err != nil {
			return err
		}
		after, err := c.db.FindLevelInfo(name)
		if err != nil {
			return err
		}
		switch {
		case before == nil:
			c.logger.Printf("Added level \"%s\" from \"%s\"\n", name, file)
		case after != nil && before.SHA1 != after.SHA1:
			c.logger.Printf("Replaced level \"%s\" with different content from \"%s\"\n", name, file)
		}
	case paletteFile:
		p, err := ReadPalette(file, palette.Default())
		if err != nil {
			var ioErr *IOError
			if !errors.As(err, &ioErr) {
				c.logger.Printf("Skipping \"%s\": %v\n", file, err)
				return nil
			}
			return err
		}
		if _, err := c.db.AddPalette(name, p); err != nil {
			return err
		}
		c.logger.Printf("Added palette \"%s\" from \"%s\"\n", name, file)
	}

	return nil
}

// removeFile drops the catalog entry for a file that no longer exists.
func (c *Catalog) removeFile(file string) error {
	kind, name := classify(file)

	var (
		ok  bool
		err error
	)
	switch kind {
	case levelFile:
		ok, err = c.db.RemoveLevel(name)
	case paletteFile:
		ok, err = c.db.RemovePalette(name)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if ok {
		c.logger.Printf("Removed \"%s\"\n", name)
	}

	return nil
}

// syncFile imports or removes the catalog entry for file depending on
// whether it still exists.
func (c *Catalog) syncFile(file string) error {
	info, err := os.Stat(file)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return c.removeFile(file)
	case err != nil:
		return err
	case !info.Mode().IsRegular(), info.Size() > maxFileSize:
		return nil
	}
	return c.importFile(file)
}
