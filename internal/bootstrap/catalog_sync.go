package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/osse101/wardrobe/internal/cosmetic"
	"github.com/osse101/wardrobe/internal/domain"
	"github.com/osse101/wardrobe/internal/repository"
	"github.com/osse101/wardrobe/internal/validation"
)

// CatalogFile is the on-disk catalog format
type CatalogFile struct {
	Version string        `json:"version"`
	Items   []CatalogItem `json:"items"`
}

// CatalogItem is one item definition. A missing or null price means free.
type CatalogItem struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	AssetKey       string          `json:"asset_key"`
	Type           string          `json:"type"`
	Price          json.RawMessage `json:"price,omitempty"`
	DisplayOrder   int             `json:"display_order"`
	CanBePurchased bool            `json:"can_be_purchased"`
	MinLevel       int             `json:"min_level"`
}

var catalogSchema = validation.NewSchemaValidator()

// LoadCatalog reads a catalog file, checks it against the bundled JSON schema
// and then validates its contents
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}

	if err := catalogSchema.ValidateBytes(data, validation.SchemaCatalog); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidItems, err)
	}

	var file CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}

	if err := ValidateCatalog(&file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidItems, err)
	}
	return &file, nil
}

// ValidateCatalog checks every item has a name, a known cosmetic type and a
// decodable price, and that explicit IDs are unique.
func ValidateCatalog(file *CatalogFile) error {
	if file.Version != CatalogSchemaVersion {
		return fmt.Errorf("unsupported catalog version %q (want %q)", file.Version, CatalogSchemaVersion)
	}

	var errs []error
	seen := make(map[int64]bool, len(file.Items))
	for i, item := range file.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, fmt.Errorf("item %d: missing name", i))
		}
		if _, err := cosmetic.Types.ParseType(item.Type); err != nil {
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i, item.Name, err))
		}
		if raw := item.price(); raw != nil {
			if _, err := cosmetic.Prices.DecodePrice(*raw); err != nil {
				errs = append(errs, fmt.Errorf("item %d (%s): %w", i, item.Name, err))
			}
		}
		if item.ID < 0 {
			errs = append(errs, fmt.Errorf("item %d (%s): negative id", i, item.Name))
		}
		if item.ID > 0 {
			if seen[item.ID] {
				errs = append(errs, fmt.Errorf("item %d (%s): duplicate id %d", i, item.Name, item.ID))
			}
			seen[item.ID] = true
		}
	}
	return errors.Join(errs...)
}

// sequenceSyncer is implemented by stores whose ID generator must be moved
// past explicitly written IDs
type sequenceSyncer interface {
	SyncSequence(ctx context.Context) error
}

// SyncCatalog upserts every item of file into w and returns how many were written
func SyncCatalog(ctx context.Context, w repository.CatalogWriter, file *CatalogFile) (int, error) {
	slog.Info(LogMsgSyncingCatalog, "items", len(file.Items))

	for i := range file.Items {
		item := file.Items[i].toDomain()
		if err := w.Upsert(ctx, &item); err != nil {
			return i, fmt.Errorf("%s: %w", ErrMsgFailedSyncItems, err)
		}
	}

	if seq, ok := w.(sequenceSyncer); ok {
		if err := seq.SyncSequence(ctx); err != nil {
			return len(file.Items), fmt.Errorf("%s: %w", ErrMsgFailedSyncItems, err)
		}
	}

	slog.Info(LogMsgCatalogSynced, "items", len(file.Items))
	return len(file.Items), nil
}

func (c CatalogItem) price() *string {
	raw := string(c.Price)
	if domain.IsFreePrice(&raw) {
		return nil
	}
	return &raw
}

func (c CatalogItem) toDomain() domain.Item {
	itemType, err := cosmetic.Types.ParseType(c.Type)
	typ := c.Type
	if err == nil {
		typ = cosmetic.Types.FormatType(itemType)
	}
	return domain.Item{
		ID:             c.ID,
		Name:           c.Name,
		AssetKey:       c.AssetKey,
		Type:           typ,
		Price:          c.price(),
		DisplayOrder:   c.DisplayOrder,
		CanBePurchased: c.CanBePurchased,
		MinLevel:       c.MinLevel,
	}
}
