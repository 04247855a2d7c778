package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"supplychain/models"
)

// MongoStore keeps all data in a MongoDB database with three collections
// mirroring the relational schema: supply_data, forecast_results and
// forecast_metrics.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and ensures the product_id indexes exist.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	for _, coll := range []string{"supply_data", "forecast_results", "forecast_metrics"} {
		_, err := s.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "product_id", Value: 1}},
		})
		if err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("create index on %s: %w", coll, err)
		}
	}

	log.Printf("Successfully connected to MongoDB database %s", dbName)
	return s, nil
}

func (s *MongoStore) supply() *mongo.Collection   { return s.db.Collection("supply_data") }
func (s *MongoStore) results() *mongo.Collection  { return s.db.Collection("forecast_results") }
func (s *MongoStore) metricsC() *mongo.Collection { return s.db.Collection("forecast_metrics") }

func (s *MongoStore) AppendRecords(ctx context.Context, records []models.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := s.supply().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

func (s *MongoStore) ProductSeries(ctx context.Context, productID string) ([]models.SeriesPoint, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "date": 1, "units_sold": 1}).
		SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.supply().Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}

	var docs []models.SalesRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}

	var series []models.SeriesPoint
	for _, d := range docs {
		series = append(series, models.SeriesPoint{Date: d.Date, Units: float64(d.UnitsSold)})
	}
	return series, nil
}

func (s *MongoStore) AllRecords(ctx context.Context) ([]models.SalesRecord, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.supply().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	var records []models.SalesRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (s *MongoStore) CountRecords(ctx context.Context) (int, error) {
	n, err := s.supply().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return int(n), nil
}

func (s *MongoStore) ListRecords(ctx context.Context, limit, offset int) ([]models.SalesRecord, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := s.supply().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	var records []models.SalesRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func (s *MongoStore) ReplaceForecast(ctx context.Context, productID string, points []models.ForecastPoint) error {
	if _, err := s.results().DeleteMany(ctx, bson.M{"product_id": productID}); err != nil {
		return fmt.Errorf("delete prior forecast: %w", err)
	}
	if len(points) == 0 {
		return nil
	}
	docs := make([]interface{}, len(points))
	for i, p := range points {
		p.ProductID = productID
		docs[i] = p
	}
	if _, err := s.results().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert forecast points: %w", err)
	}
	return nil
}

func (s *MongoStore) ReplaceMetrics(ctx context.Context, m models.ForecastMetrics) error {
	if _, err := s.metricsC().DeleteMany(ctx, bson.M{"product_id": m.ProductID}); err != nil {
		return fmt.Errorf("delete prior metrics: %w", err)
	}
	if _, err := s.metricsC().InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert metrics: %w", err)
	}
	return nil
}

func (s *MongoStore) ForecastPoints(ctx context.Context, productID string) ([]models.ForecastPoint, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.results().Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query forecast points: %w", err)
	}

	var points []models.ForecastPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("decode forecast points: %w", err)
	}
	return points, nil
}

func (s *MongoStore) Metrics(ctx context.Context, productID string) (*models.ForecastMetrics, error) {
	var m models.ForecastMetrics
	err := s.metricsC().FindOne(ctx, bson.M{"product_id": productID},
		options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	return &m, nil
}

func (s *MongoStore) Close() {
	if err := s.client.Disconnect(context.Background()); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
}
