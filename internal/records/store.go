package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/farxc/consulta-energia/internal/region"
)

var ErrLoad = errors.New("load record table")

// Source produces the rows of the installation table.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

var requiredColumns = []string{ColEstado, ColInstalacao}

var identifierColumns = []string{ColInstalacao, ColNumeroMedidor, ColMedidorAnterior}

type lookupKey struct {
	region string
	id     string
}

type snapshot struct {
	records  []Record
	byID     map[lookupKey]int
	history  map[lookupKey][]int
	loadedAt time.Time
}

// Store serves lookups from an immutable snapshot. Load swaps the whole
// snapshot, so readers see either the old or the new table, never a mix.
type Store struct {
	loadMu sync.Mutex
	snap   atomic.Pointer[snapshot]
}

func NewStore() *Store {
	s := &Store{}
	s.snap.Store(buildSnapshot(nil, time.Time{}))
	return s
}

// NewStoreFromRecords builds a store already holding recs.
func NewStoreFromRecords(recs []Record) *Store {
	s := &Store{}
	s.snap.Store(buildSnapshot(recs, time.Now()))
	return s
}

// Load replaces the table with what src yields. On failure the store is left
// empty and the error, wrapping ErrLoad, is returned for the caller to log.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	recs, err := src.Load(ctx)
	if err == nil {
		err = checkColumns(recs)
	}
	if err != nil {
		s.snap.Store(buildSnapshot(nil, time.Now()))
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s.snap.Store(buildSnapshot(recs, time.Now()))
	return nil
}

func checkColumns(recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	var missing []string
	for _, col := range requiredColumns {
		if !recs[0].Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func buildSnapshot(recs []Record, loadedAt time.Time) *snapshot {
	snap := &snapshot{
		records:  recs,
		byID:     make(map[lookupKey]int),
		history:  make(map[lookupKey][]int),
		loadedAt: loadedAt,
	}

	for i, rec := range recs {
		estado := rec.Get(ColEstado)
		for _, col := range identifierColumns {
			id := rec.Get(col)
			if id == "" {
				continue
			}
			k := lookupKey{region: estado, id: id}
			if _, seen := snap.byID[k]; !seen {
				snap.byID[k] = i
			}
		}

		if rec.Get(ColTipoEvento) == EventOwnershipTransfer {
			k := lookupKey{region: estado, id: rec.Get(ColInstalacao)}
			snap.history[k] = append(snap.history[k], i)
		}
	}

	return snap
}

// NormalizeQuery keeps only the digits of raw.
func NormalizeQuery(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindInstallation returns the first record, in table order, of region r whose
// INSTALACAO, NUMERO_MEDIDOR or MEDIDOR_ANTERIOR equals the digits of rawQuery.
func (s *Store) FindInstallation(r, rawQuery string) (Record, bool) {
	numero := NormalizeQuery(rawQuery)
	if numero == "" {
		return Record{}, false
	}

	snap := s.snap.Load()
	i, ok := snap.byID[lookupKey{region: region.Normalize(r), id: numero}]
	if !ok {
		return Record{}, false
	}
	return snap.records[i], true
}

// FindOwnershipHistory returns the ownership transfer events recorded for
// installationID in region r, in table order. installationID is matched as is.
func (s *Store) FindOwnershipHistory(r, installationID string) []Record {
	snap := s.snap.Load()
	idx := snap.history[lookupKey{region: region.Normalize(r), id: installationID}]

	out := make([]Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, snap.records[i])
	}
	return out
}

// Len reports how many records are loaded.
func (s *Store) Len() int {
	return len(s.snap.Load().records)
}

// LoadedAt is the time of the last Load attempt, zero if none.
func (s *Store) LoadedAt() time.Time {
	return s.snap.Load().loadedAt
}
