package rulebook

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/toonforge/toonforge/internal/errors"
)

// Library holds every loaded document, keyed by document key. Read-only
// after Load; shared across characters.
type Library struct {
	Classes     map[string]*ClassProgression
	Races       map[string]*Race
	Backgrounds map[string]*Background
}

// Class returns the class with the given key
func (l *Library) Class(key string) (*ClassProgression, error) {
	c, ok := l.Classes[strings.ToLower(key)]
	if !ok {
		return nil, errors.NotFoundf("unknown class %q", key)
	}
	return c, nil
}

// Race returns the race with the given key
func (l *Library) Race(key string) (*Race, error) {
	r, ok := l.Races[strings.ToLower(key)]
	if !ok {
		return nil, errors.NotFoundf("unknown race %q", key)
	}
	return r, nil
}

// Background returns the background with the given key
func (l *Library) Background(key string) (*Background, error) {
	b, ok := l.Backgrounds[strings.ToLower(key)]
	if !ok {
		return nil, errors.NotFoundf("unknown background %q", key)
	}
	return b, nil
}

// ClassKeys lists loaded class keys, sorted
func (l *Library) ClassKeys() []string {
	keys := make([]string, 0, len(l.Classes))
	for k := range l.Classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeClass parses and validates one class document
func DecodeClass(data []byte) (*ClassProgression, error) {
	var c ClassProgression
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse class document")
	}
	if err := ValidateClass(&c).Err(); err != nil {
		return &c, err
	}
	return &c, nil
}

// DecodeRace parses and validates one race document
func DecodeRace(data []byte) (*Race, error) {
	var r Race
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed to parse race document")
	}
	if err := ValidateRace(&r).Err(); err != nil {
		return &r, err
	}
	return &r, nil
}

// DecodeBackground parses and validates one background document
func DecodeBackground(data []byte) (*Background, error) {
	var b Background
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "failed to parse background document")
	}
	if err := ValidateBackground(&b).Err(); err != nil {
		return &b, err
	}
	return &b, nil
}

// Load reads every document under dataDir (classes/, races/, backgrounds/)
// into a Library. Documents that fail validation are kept with their
// offending features flagged inactive; the collected problems are logged
// so a data author sees every one of them.
func Load(ctx context.Context, dataDir string) (*Library, error) {
	lib := &Library{
		Classes:     make(map[string]*ClassProgression),
		Races:       make(map[string]*Race),
		Backgrounds: make(map[string]*Background),
	}

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)

	classFiles, err := listJSONFiles(filepath.Join(dataDir, "classes"))
	if err != nil {
		return nil, err
	}
	for _, path := range classFiles {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", path)
			}
			c, err := DecodeClass(data)
			if err != nil {
				if c == nil {
					return err
				}
				log.Printf("rulebook: %v", err)
			}
			mu.Lock()
			lib.Classes[strings.ToLower(c.Key)] = c
			mu.Unlock()
			return nil
		})
	}

	raceFiles, err := listJSONFiles(filepath.Join(dataDir, "races"))
	if err != nil {
		return nil, err
	}
	for _, path := range raceFiles {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", path)
			}
			r, err := DecodeRace(data)
			if err != nil {
				if r == nil {
					return err
				}
				log.Printf("rulebook: %v", err)
			}
			mu.Lock()
			lib.Races[strings.ToLower(r.Key)] = r
			mu.Unlock()
			return nil
		})
	}

	backgroundFiles, err := listJSONFiles(filepath.Join(dataDir, "backgrounds"))
	if err != nil {
		return nil, err
	}
	for _, path := range backgroundFiles {
		path := path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", path)
			}
			b, err := DecodeBackground(data)
			if err != nil {
				if b == nil {
					return err
				}
				log.Printf("rulebook: %v", err)
			}
			mu.Lock()
			lib.Backgrounds[strings.ToLower(b.Key)] = b
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lib, nil
}

// listJSONFiles returns .json files in dir; a missing dir is not an error,
// the corpus may ship only some categories
func listJSONFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
