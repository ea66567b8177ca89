package dotedit

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/dotedit/bitmap"
	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/level"
	"github.com/bodgit/dotedit/palette"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// LevelDB is a catalog of levels and named palettes. Level files are
// stored zstd compressed.
type LevelDB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// LevelInfo describes a level held in a LevelDB.
type LevelInfo struct {
	Name   string
	SHA1   string
	Format level.Format
	Width  int
	Height int
	Colors int
}

// NewLevelDB opens or creates the catalog in file.
func NewLevelDB(file string) (*LevelDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Writers come from several scan workers at once
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS level (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, format TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &LevelDB{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the catalog.
func (db *LevelDB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

func checksum(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}

// AddLevel stores c under name, replacing any level already stored with
// that name. Storing identical image data again is a no-op.
func (db *LevelDB) AddLevel(name string, c *canvas.Canvas) (int64, error) {
	b := new(bytes.Buffer)
	if err := bitmap.Encode(b, c); err != nil {
		return 0, err
	}
	sha := checksum(b.Bytes())
	data := level.FromCanvas(c)

	var id int64
	var old string
	switch err := db.db.QueryRow("SELECT id, sha1 FROM level WHERE name = ?", name).Scan(&id, &old); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO level (name, sha1, format, width, height, colors, data) VALUES (?, ?, ?, ?, ?, ?, ?)", name, sha, data.Format.String(), data.Width, data.Height, data.Colors, db.enc.EncodeAll(b.Bytes(), nil))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if old == sha {
			return id, nil
		}
		if _, err := db.db.Exec("UPDATE level SET sha1 = ?, format = ?, width = ?, height = ?, colors = ?, data = ? WHERE id = ?", sha, data.Format.String(), data.Width, data.Height, data.Colors, db.enc.EncodeAll(b.Bytes(), nil), id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// FindLevel returns the level stored under name, or nil if there is none.
func (db *LevelDB) FindLevel(name string) (*canvas.Canvas, error) {
	var blob []byte
	switch err := db.db.QueryRow("SELECT data FROM level WHERE name = ?", name).Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		b, err := db.dec.DecodeAll(blob, nil)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", name, err)
		}
		c, err := bitmap.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", name, err)
		}
		return c, nil
	default:
		return nil, err
	}
}

// FindLevelInfo describes the level stored under name, or returns nil if
// there is none.
func (db *LevelDB) FindLevelInfo(name string) (*LevelInfo, error) {
	info := LevelInfo{Name: name}
	var format string
	switch err := db.db.QueryRow("SELECT sha1, format, width, height, colors FROM level WHERE name = ?", name).Scan(&info.SHA1, &format, &info.Width, &info.Height, &info.Colors); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		copy(info.Format[:], format)
		return &info, nil
	default:
		return nil, err
	}
}

// ListLevels returns every level in name order.
func (db *LevelDB) ListLevels() ([]LevelInfo, error) {
	rows, err := db.db.Query("SELECT name, sha1, format, width, height, colors FROM level ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []LevelInfo
	for rows.Next() {
		var info LevelInfo
		var format string
		if err := rows.Scan(&info.Name, &info.SHA1, &format, &info.Width, &info.Height, &info.Colors); err != nil {
			return nil, err
		}
		copy(info.Format[:], format)
		levels = append(levels, info)
	}

	return levels, rows.Err()
}

// RemoveLevel deletes the level stored under name, reporting whether there
// was one.
func (db *LevelDB) RemoveLevel(name string) (bool, error) {
	result, err := db.db.Exec("DELETE FROM level WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddPalette stores p under name, replacing any palette already stored
// with that name.
func (db *LevelDB) AddPalette(name string, p palette.Palette) (int64, error) {
	b := p.Bytes()
	sha := checksum(b)

	var id int64
	var old string
	switch err := db.db.QueryRow("SELECT id, sha1 FROM palette WHERE name = ?", name).Scan(&id, &old); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO palette (name, sha1, data) VALUES (?, ?, ?)", name, sha, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if old == sha {
			return id, nil
		}
		if _, err := db.db.Exec("UPDATE palette SET sha1 = ?, data = ? WHERE id = ?", sha, b, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// FindPalette returns the palette stored under name, or nil if there is
// none.
func (db *LevelDB) FindPalette(name string) (*palette.Palette, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT data FROM palette WHERE name = ?", name).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		p, err := palette.FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		return &p, nil
	default:
		return nil, err
	}
}

// ListPalettes returns the names of every stored palette in order.
func (db *LevelDB) ListPalettes() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM palette ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// RemovePalette deletes the palette stored under name, reporting whether
// there was one.
func (db *LevelDB) RemovePalette(name string) (bool, error) {
	result, err := db.db.Exec("DELETE FROM palette WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
