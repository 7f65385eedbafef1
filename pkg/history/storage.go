package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fogswap/pkg/types"
)

// Record is the local trace of a transaction created from this machine.
// The service stays the source of truth; LastStatus is only what the
// last refresh saw.
type Record struct {
	ID                  string          `json:"id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	TxType              types.TxType    `json:"tx_type"`
	NetworkFrom         string          `json:"network_from"`
	ContractAddressFrom string          `json:"contract_address_from"`
	NetworkTo           string          `json:"network_to"`
	ContractAddressTo   string          `json:"contract_address_to"`
	AmountFrom          decimal.Decimal `json:"amount_from"`
	AmountTo            decimal.Decimal `json:"amount_to"`
	PayinAddress        string          `json:"payin_address"`
	PayinExtraID        string          `json:"payin_extra_id,omitempty"`
	PayoutAddress       string          `json:"payout_address"`
	LastStatus          string          `json:"last_status"`
}

// NewRecord captures a freshly created transaction
func NewRecord(tx *types.TransactionInfo) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:                  tx.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
		TxType:              tx.TxType,
		NetworkFrom:         tx.NetworkFrom,
		ContractAddressFrom: tx.ContractAddressFrom,
		NetworkTo:           tx.NetworkTo,
		ContractAddressTo:   tx.ContractAddressTo,
		AmountFrom:          tx.AmountFrom,
		AmountTo:            tx.AmountTo,
		PayinAddress:        tx.PayinAddress,
		PayinExtraID:        tx.GetPayinExtraID(),
		PayoutAddress:       tx.PayoutAddress,
		LastStatus:          tx.Status,
	}
}

// Observe copies the latest server view of the transaction into the record
func (r *Record) Observe(tx *types.TransactionInfo) {
	r.LastStatus = tx.Status
	r.AmountTo = tx.AmountTo
	r.UpdatedAt = time.Now().UTC()
}

// Storage persists records as a single JSON file
type Storage struct {
	filePath string
	mu       sync.RWMutex
	records  map[string]*Record
}

type fileFormat struct {
	Transactions map[string]*Record `json:"transactions"`
}

// NewStorage opens the history file, creating it lazily on first write
func NewStorage(filePath string) (*Storage, error) {
	if filePath == "" {
		return nil, fmt.Errorf("history file path is required")
	}

	s := &Storage{
		filePath: filePath,
		records:  make(map[string]*Record),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}
	if f.Transactions != nil {
		s.records = f.Transactions
	}
	return nil
}

// saveWith stores r under id and persists, restoring the previous record
// if the write fails. s.mu must be held.
func (s *Storage) saveWith(id string, r *Record) error {
	prev := s.records[id]
	s.records[id] = r
	if err := s.save(); err != nil {
		s.records[id] = prev
		return err
	}
	return nil
}

// save must be called with s.mu held
func (s *Storage) save() error {
	data, err := json.MarshalIndent(fileFormat{Transactions: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Create adds a new record
func (s *Storage) Create(r *Record) error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; exists {
		return fmt.Errorf("transaction '%s' already recorded", r.ID)
	}
	stored := *r
	s.records[r.ID] = &stored
	return s.save()
}

// Get returns a copy of the record of a transaction
func (s *Storage) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.records[id]
	if !exists {
		return nil, fmt.Errorf("transaction '%s' not found in history", id)
	}
	c := *r
	return &c, nil
}

// Update replaces an existing record
func (s *Storage) Update(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; !exists {
		return fmt.Errorf("transaction '%s' not found in history", r.ID)
	}
	stored := *r
	return s.saveWith(r.ID, &stored)
}

// Observe applies the latest server view of tx to its record. It reports
// false without writing when the transaction is not in history or its
// status did not change.
func (s *Storage) Observe(tx *types.TransactionInfo) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.records[tx.ID]
	if !exists || r.LastStatus == tx.Status {
		return false, nil
	}
	updated := *r
	updated.Observe(tx)
	if err := s.saveWith(tx.ID, &updated); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a record
func (s *Storage) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("transaction '%s' not found in history", id)
	}
	delete(s.records, id)
	return s.save()
}

// List returns copies of all records, newest first
func (s *Storage) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		records = append(records, &c)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

// Count returns the number of records
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// FilePath returns the storage file path
func (s *Storage) FilePath() string {
	return s.filePath
}
