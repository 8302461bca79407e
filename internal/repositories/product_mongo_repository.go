package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

// productDocument is the stored shape of a product. Nil category and brand
// are written as null.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Tags        []string           `bson:"tags"`
	Category    *string            `bson:"category"`
	Brand       *string            `bson:"brand"`
	IsDeleted   bool               `bson:"isDeleted"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDocument) toModel() *models.Product {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Tags:        tags,
		Category:    d.Category,
		Brand:       d.Brand,
		IsDeleted:   d.IsDeleted,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection(productsCollection),
	}
}

// EnsureIndexes creates the secondary indexes and the partial unique index
// that keeps (name, brand) unique among live products.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}, {Key: "brand", Value: 1}},
			Options: options.Index().
				SetName("live_name_brand").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// FindOne retrieves the first live product matching filter.
func (r *MongoProductRepository) FindOne(ctx context.Context, filter ProductFilter) (*models.Product, error) {
	query, ok := productQuery(filter)
	if !ok {
		return nil, ErrNotFound
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return doc.toModel(), nil
}

// FindOneAndUpdate applies $set to the matching live product and returns the
// document after the update.
func (r *MongoProductRepository) FindOneAndUpdate(ctx context.Context, filter ProductFilter, update ProductUpdate) (*models.Product, error) {
	query, ok := productQuery(filter)
	if !ok {
		return nil, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err := r.collection.FindOneAndUpdate(ctx, query, bson.M{"$set": productSet(update)}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return doc.toModel(), nil
}

// Insert stores a new product document.
func (r *MongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	now := timeNow()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Tags:        product.Tags,
		Category:    models.OptionalString(product.Category),
		Brand:       models.OptionalString(product.Brand),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	*product = *doc.toModel()
	return nil
}

// pageFacet is the single document produced by the $facet stage.
type pageFacet struct {
	Items      []productDocument `bson:"items"`
	TotalCount []struct {
		Count int64 `bson:"count"`
	} `bson:"totalCount"`
}

// AggregatePaginated runs one aggregation that returns the page and the
// total of the filtered set side by side.
func (r *MongoProductRepository) AggregatePaginated(ctx context.Context, query PageQuery) (*Page, error) {
	match := bson.M{"isDeleted": false}
	if query.Category != "" {
		match["category"] = query.Category
	}
	if query.Brand != "" {
		match["brand"] = query.Brand
	}

	items := bson.A{}
	if query.After != nil {
		items = append(items, bson.M{"$match": bson.M{"createdAt": bson.M{"$gt": query.After.UTC()}}})
	}
	items = append(items, bson.M{"$limit": query.Limit})

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$facet", Value: bson.M{
			"items":      items,
			"totalCount": bson.A{bson.M{"$count": "count"}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []pageFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("failed to decode product page: %w", err)
	}
	if len(facets) == 0 {
		return nil, nil
	}

	page := &Page{Items: make([]models.Product, 0, len(facets[0].Items))}
	for _, doc := range facets[0].Items {
		page.Items = append(page.Items, *doc.toModel())
	}
	if len(facets[0].TotalCount) > 0 {
		page.TotalCount = facets[0].TotalCount[0].Count
	}
	return page, nil
}

// productQuery translates filter to a Mongo query. It reports false when the
// filter names an id that cannot exist.
func productQuery(filter ProductFilter) (bson.M, bool) {
	query := bson.M{"isDeleted": false}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, false
		}
		query["_id"] = oid
	}
	if filter.ByNameAndBrand {
		query["name"] = filter.Name
		if brand := models.OptionalString(filter.Brand); brand != nil {
			query["brand"] = *brand
		} else {
			query["brand"] = nil
		}
	}
	return query, true
}

func productSet(update ProductUpdate) bson.M {
	set := bson.M{"updatedAt": timeNow()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Tags != nil {
		tags := *update.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if update.Category != nil {
		set["category"] = models.OptionalString(update.Category)
	}
	if update.Brand != nil {
		set["brand"] = models.OptionalString(update.Brand)
	}
	if update.IsDeleted != nil {
		set["isDeleted"] = *update.IsDeleted
	}
	return set
}
