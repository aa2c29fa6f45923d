package repositories

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"supercook/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteRecipeRepository reads the catalog from a pre-built SQLite
// dataset file. The handle is opened lazily on first use so a missing
// file surfaces as ErrDatasetMissing per request instead of the driver
// creating an empty database at startup.
type SQLiteRecipeRepository struct {
	path string
	db   *gorm.DB
	mu   sync.Mutex
}

// NewSQLiteRecipeRepository creates a repository over the dataset file
// at path.
func NewSQLiteRecipeRepository(path string) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{
		path: path,
	}
}

// GetAll scans every catalog row and decodes each ingredient cell from
// its serialized JSON form. Rows whose cell fails to decode are dropped
// rather than failing the whole query.
func (r *SQLiteRecipeRepository) GetAll() ([]models.Recipe, error) {
	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", r.path, ErrDatasetMissing)
	}

	db, err := r.handle()
	if err != nil {
		return nil, err
	}

	var rows []models.Recipe
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query recipe catalog: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		var ingredients []string
		if err := json.Unmarshal([]byte(row.RawIngredients), &ingredients); err != nil {
			log.Printf("Skipping catalog row %d: undecodable ingredients cell: %v", row.ID, err)
			continue
		}
		row.Ingredients = ingredients
		row.RawIngredients = ""
		recipes = append(recipes, row)
	}
	return recipes, nil
}

// Close releases the underlying database handle if one was opened.
func (r *SQLiteRecipeRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access catalog connection: %w", err)
	}
	r.db = nil
	return sqlDB.Close()
}

func (r *SQLiteRecipeRepository) handle() (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}
	db, err := gorm.Open(sqlite.Open(r.path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe dataset %s: %w", r.path, err)
	}
	r.db = db
	return r.db, nil
}
