// Command seed imports or destroys fixture data. Fixtures are extended
// JSON arrays named after their collection, e.g. _data/divecenters.json.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/coralbay/divedirectory/internal/config"
	"github.com/coralbay/divedirectory/internal/db"
)

var collections = []string{
	db.UsersCollection,
	db.DiveCentersCollection,
	db.CoursesCollection,
	db.ReviewsCollection,
}

func main() {
	importData := flag.Bool("import", false, "import fixtures")
	destroy := flag.Bool("destroy", false, "delete all documents")
	dataDir := flag.String("data", "_data", "fixture directory")
	flag.Parse()

	if *importData == *destroy {
		log.Fatal().Msg("pass exactly one of -import or -destroy")
	}

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}
	cfg := config.Load()
	database := db.Connect(cfg.MongoURI, cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *destroy {
		for _, name := range collections {
			if _, err := database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
				log.Fatal().Err(err).Str("collection", name).Msg("destroy failed")
			}
		}
		log.Info().Msg("data destroyed")
		return
	}

	for _, name := range collections {
		path := filepath.Join(*dataDir, name+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Fatal().Err(err).Str("file", path).Msg("read failed")
		}

		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("parse failed")
		}

		docs := make([]interface{}, 0, len(entries))
		for _, entry := range entries {
			var doc bson.M
			if err := bson.UnmarshalExtJSON(entry, true, &doc); err != nil {
				log.Fatal().Err(err).Str("file", path).Msg("decode failed")
			}
			docs = append(docs, doc)
		}
		if len(docs) == 0 {
			continue
		}

		if _, err := database.Collection(name).InsertMany(ctx, docs); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("import failed")
		}
		log.Info().Int("count", len(docs)).Str("collection", name).Msg("imported")
	}
	log.Info().Msg("data imported")
}
