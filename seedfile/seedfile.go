/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package seedfile persists generator output across restarts so the daemon
// never has to boot from timing entropy alone.
package seedfile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/internal/fileutil"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var logger = flogging.MustGetLogger("seedfile")

// SeedSize is the number of bytes persisted across restarts. 384 bits keeps
// a margin over the 256 bit strength of the backends.
const SeedSize = 48

// Generator is the surface of the managed instance the seed file needs.
type Generator interface {
	Generate(out []byte) (int, error)
	Inject(material []byte) error
}

// File reads and writes a persistent seed for a generator.
type File struct {
	path string
	gen  Generator
}

// New returns a seed file at path backed by gen.
func New(path string, gen Generator) *File {
	return &File{path: path, gen: gen}
}

// Load injects the stored seed into the generator and immediately rewrites
// the file with fresh output, so a crash never replays the same material.
// The stored bytes are conditioned through SHA3-512 together with the
// current time and pid before injection; a cloned disk image therefore
// still seeds each clone differently. A missing file is not an error.
func (f *File) Load() error {
	exists, _, err := fileutil.FileExists(f.path)
	if err != nil {
		return errors.WithMessage(err, "checking seed file")
	}
	if !exists {
		logger.Warningf("seed file %s not found, proceeding without stored seed", f.path)
		return nil
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return errors.WithMessagef(err, "reading seed file %s", f.path)
	}

	h := sha3.New512()
	h.Write(raw)
	var tail [12]byte
	binary.LittleEndian.PutUint64(tail[:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint32(tail[8:], uint32(os.Getpid()))
	h.Write(tail[:])
	digest := h.Sum(nil)

	err = f.gen.Inject(digest)
	wipe(raw)
	wipe(digest)
	if err != nil {
		return errors.WithMessage(err, "injecting stored seed")
	}

	logger.Infof("loaded %d byte seed from %s", len(raw), f.path)
	return f.Store()
}

// Store draws fresh output from the generator and atomically replaces the
// seed file.
func (f *File) Store() error {
	var seed [SeedSize]byte
	if _, err := f.gen.Generate(seed[:]); err != nil {
		return errors.WithMessage(err, "drawing seed file material")
	}

	dir := filepath.Dir(f.path)
	final := filepath.Base(f.path)
	tmp := final + ".tmp"

	if _, err := fileutil.CreateDirIfMissing(dir); err != nil {
		wipe(seed[:])
		return err
	}

	// A crash between create and rename leaves the temp file behind.
	if err := os.Remove(filepath.Join(dir, tmp)); err != nil && !os.IsNotExist(err) {
		wipe(seed[:])
		return errors.WithMessage(err, "removing stale temp seed file")
	}

	err := fileutil.CreateAndSyncFileAtomically(dir, tmp, final, seed[:], 0o600)
	wipe(seed[:])
	if err != nil {
		return err
	}
	if err := fileutil.SyncDir(dir); err != nil {
		return err
	}

	logger.Debugf("stored %d seed bytes to %s", SeedSize, f.path)
	return nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
