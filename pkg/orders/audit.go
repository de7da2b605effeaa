package orders

import (
	"context"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// MongoAudit writes one audit log entry per saved order.
type MongoAudit struct {
	repo *repository.MongoRepository
}

func NewMongoAudit(repo *repository.MongoRepository) *MongoAudit {
	return &MongoAudit{repo: repo}
}

func (a *MongoAudit) RecordOrder(ctx context.Context, uid string, order models.Order) error {
	return a.repo.CreateAuditLog(ctx, &repository.AuditLog{
		Service:  "storefront",
		Action:   "save_order",
		EntityID: order.ID,
		Data: bson.M{
			"user_id":      uid,
			"total_amount": order.Total,
			"item_count":   len(order.Items),
		},
	})
}
