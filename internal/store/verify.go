package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"editcore/internal/text"
)

// checksum computes the row checksum:
// H(len(id) || id || len(text) || text || sel_start || sel_end || comp_flag [|| comp_start || comp_end])
// with H keyed BLAKE2b-256 when the store has a key.
func (s *Store) checksum(id string, v text.TextFieldValue) ([32]byte, error) {
	h, err := blake2b.New256(s.key)
	if err != nil {
		return [32]byte{}, fmt.Errorf("init checksum: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(id)))
	h.Write(lenBuf[:])
	h.Write([]byte(id))

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v.Text)))
	h.Write(lenBuf[:])
	h.Write([]byte(v.Text))

	writeInt := func(n int) {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(int64(n)))
		h.Write(buf[:])
	}
	writeInt(v.Selection.Start)
	writeInt(v.Selection.End)

	if v.Composition == nil {
		h.Write([]byte{0})
	} else {
		h.Write([]byte{1})
		writeInt(v.Composition.Start)
		writeInt(v.Composition.End)
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// verify checks a loaded row against its stored checksum.
func (s *Store) verify(id string, v text.TextFieldValue, stored []byte) error {
	sum, err := s.checksum(id, v)
	if err != nil {
		return err
	}
	if !bytes.Equal(sum[:], stored) {
		return fmt.Errorf("%w: %q: computed %x, stored %x", ErrCorrupt, id, sum, stored)
	}
	return nil
}

// VerifyAll checks every row and returns the ids that fail verification.
func (s *Store) VerifyAll() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT id, text, sel_start, sel_end, comp_start, comp_end, checksum, updated_ns
		FROM field_state
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query field state: %w", err)
	}
	defer rows.Close()

	var corrupted []string
	for rows.Next() {
		r, stored, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if err := s.verify(r.ID, r.Value, stored); err != nil {
			corrupted = append(corrupted, r.ID)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field state: %w", err)
	}

	return corrupted, nil
}
