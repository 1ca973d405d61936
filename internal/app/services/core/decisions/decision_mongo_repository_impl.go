package decisions

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DecisionMongoRepository struct {
	Collection *mongo.Collection
}

func NewDecisionMongoRepository(db *mongo.Client, dbName string) contracts.DecisionRepository {
	return &DecisionMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDecisions),
	}
}

func (repo *DecisionMongoRepository) Insert(ctx context.Context, record *models.DecisionRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	_, err := repo.Collection.InsertOne(ctx, record)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *DecisionMongoRepository) FindByClaimID(ctx context.Context, claimID string) ([]models.DecisionRecord, error) {
	var records []models.DecisionRecord
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"claim_id": claimID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}
