package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category      StringList         `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	Size          string             `bson:"size,omitempty" json:"size,omitempty"`
	Notes         StringList         `bson:"notes,omitempty" json:"notes"`
	Rating        float64            `bson:"rating" json:"rating"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	ImagePath     string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	InStock       bool               `bson:"-" json:"inStock"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Featured      bool               `bson:"featured" json:"featured"`
	IsDeleted     bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt     *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
