package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const batchSize = 1000

// Migrator copies the first-generation bot's document data (sets, cards,
// users, per-user collections) into Postgres. Draw records are not migrated:
// the daily quota starts fresh after the cutover.
type Migrator struct {
	pgDB    *bun.DB
	mongoDB *mongo.Database

	// legacy card _id -> new cards.id, for rewriting collection references
	cardIDs map[string]int64
}

func NewMigrator(ctx context.Context, pgDB *bun.DB, mongoURI, mongoName string) (*Migrator, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("legacy database unreachable: %w", err)
	}

	return &Migrator{
		pgDB:    pgDB,
		mongoDB: client.Database(mongoName),
		cardIDs: make(map[string]int64),
	}, nil
}

// Run imports everything in dependency order: sets, then cards per set, then
// users, then collection entries.
func (m *Migrator) Run(ctx context.Context) error {
	start := time.Now()

	sets, err := m.importSets(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	idsBySet := make([]map[string]int64, len(sets))
	for i, set := range sets {
		g.Go(func() error {
			ids, err := m.importCards(gctx, set)
			if err != nil {
				return err
			}
			idsBySet[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, ids := range idsBySet {
		for legacyID, newID := range ids {
			m.cardIDs[legacyID] = newID
		}
	}

	if err := m.importUsers(ctx); err != nil {
		return err
	}
	if err := m.importCollections(ctx); err != nil {
		return err
	}

	slog.Info("Legacy import finished",
		slog.Int("sets", len(sets)),
		slog.Int("cards", len(m.cardIDs)),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (m *Migrator) importSets(ctx context.Context) ([]LegacySet, error) {
	cursor, err := m.mongoDB.Collection("sets").Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy sets: %w", err)
	}
	var legacy []LegacySet
	if err := cursor.All(ctx, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy sets: %w", err)
	}

	now := time.Now()
	sets := make([]*models.Set, 0, len(legacy))
	for _, ls := range legacy {
		sets = append(sets, &models.Set{
			ID:            ls.ID,
			FullName:      ls.FullName,
			NumberOfCards: ls.NumberOfCards,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	if len(sets) == 0 {
		return legacy, nil
	}

	_, err = m.pgDB.NewInsert().
		Model(&sets).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sets: %w", err)
	}

	slog.Info("Imported sets", slog.Int("count", len(sets)))
	return legacy, nil
}

func (m *Migrator) importCards(ctx context.Context, set LegacySet) (map[string]int64, error) {
	cursor, err := m.mongoDB.Collection("cards").Find(ctx, bson.D{{Key: "set", Value: set.ID}})
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy cards for %q: %w", set.ID, err)
	}
	var legacy []LegacyCard
	if err := cursor.All(ctx, &legacy); err != nil {
		return nil, fmt.Errorf("failed to decode legacy cards for %q: %w", set.ID, err)
	}

	ids := make(map[string]int64, len(legacy))
	now := time.Now()

	for start := 0; start < len(legacy); start += batchSize {
		end := min(start+batchSize, len(legacy))
		batch := legacy[start:end]

		cards := make([]*models.Card, 0, len(batch))
		for _, lc := range batch {
			cards = append(cards, &models.Card{
				SetID:     set.ID,
				Number:    lc.Number,
				Name:      lc.Name,
				Weight:    lc.Weight,
				Image:     lc.Image,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		_, err := m.pgDB.NewInsert().
			Model(&cards).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to insert cards for %q: %w", set.ID, err)
		}
		for i, card := range cards {
			ids[batch[i].ID] = card.ID
		}
	}

	slog.Info("Imported cards",
		slog.String("set", set.ID),
		slog.Int("count", len(ids)))
	return ids, nil
}

func (m *Migrator) importUsers(ctx context.Context) error {
	cursor, err := m.mongoDB.Collection("users").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to read legacy users: %w", err)
	}
	var legacy []LegacyUser
	if err := cursor.All(ctx, &legacy); err != nil {
		return fmt.Errorf("failed to decode legacy users: %w", err)
	}
	if len(legacy) == 0 {
		return nil
	}

	now := time.Now()
	users := make([]*models.User, 0, len(legacy))
	for _, lu := range legacy {
		users = append(users, &models.User{
			DiscordID: lu.ID,
			Username:  lu.Username,
			FirstName: lu.FirstName,
			LastName:  lu.LastName,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	_, err = m.pgDB.NewInsert().
		Model(&users).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}

	slog.Info("Imported users", slog.Int("count", len(users)))
	return nil
}

func (m *Migrator) importCollections(ctx context.Context) error {
	cursor, err := m.mongoDB.Collection("collection").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to read legacy collections: %w", err)
	}
	var legacy []LegacyCollectionEntry
	if err := cursor.All(ctx, &legacy); err != nil {
		return fmt.Errorf("failed to decode legacy collections: %w", err)
	}

	now := time.Now()
	entries := make([]*models.CollectionEntry, 0, len(legacy))
	skipped := 0
	for _, le := range legacy {
		cardID, ok := m.cardIDs[le.CardID]
		if !ok {
			// Entry references a card missing from the legacy dump; count it
			// rather than abort the whole import.
			skipped++
			continue
		}
		count := le.Count
		if count < 1 {
			count = 1
		}
		entries = append(entries, &models.CollectionEntry{
			UserID:    le.UserID,
			CardID:    cardID,
			Count:     count,
			Obtained:  now,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if skipped > 0 {
		slog.Warn("Skipped collection entries with unknown cards",
			slog.Int("count", skipped))
	}

	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))
		batch := entries[start:end]
		_, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (user_id, card_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert collection entries: %w", err)
		}
	}

	slog.Info("Imported collection entries", slog.Int("count", len(entries)))
	return nil
}
