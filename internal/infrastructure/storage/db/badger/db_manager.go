package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

const (
	commitmentsSequenceKey = "commitments"
	sequenceBandwidth      = 100
	valueLogGCInterval     = 30 * time.Minute
)

type repoManager struct {
	store    *badgerhold.Store
	sequence *badger.Sequence
	quitChan chan struct{}

	commitmentRepository  domain.CommitmentRepository
	participantRepository domain.ParticipantRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. If the data dir is empty
// the store is kept in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "commitments")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening commitments db: %w", err)
	}

	sequence, err := store.Badger().GetSequence(
		[]byte(commitmentsSequenceKey), sequenceBandwidth,
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening commitments sequence: %w", err)
	}

	rm := &repoManager{
		store:    store,
		sequence: sequence,
		quitChan: make(chan struct{}),
	}
	rm.commitmentRepository = NewCommitmentRepositoryImpl(store, sequence)
	rm.participantRepository = NewParticipantRepositoryImpl(store)

	if len(dbDir) > 0 {
		go rm.runValueLogGC()
	}

	return rm, nil
}

func (r *repoManager) CommitmentRepository() domain.CommitmentRepository {
	return r.commitmentRepository
}

func (r *repoManager) ParticipantRepository() domain.ParticipantRepository {
	return r.participantRepository
}

func (r *repoManager) Close() {
	close(r.quitChan)
	if err := r.sequence.Release(); err != nil {
		log.WithError(err).Warn("badger: cannot release commitments sequence")
	}
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("badger: cannot close store")
	}
}

func (r *repoManager) runValueLogGC() {
	ticker := time.NewTicker(valueLogGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		case <-r.quitChan:
			return
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: sequenceBandwidth,
		Options:          opts,
	})
}
