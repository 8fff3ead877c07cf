package mongodb

import (
	"context"
	"errors"

	"Aethelgard/internal/city/domain"
	"Aethelgard/internal/city/infra/persistence/model"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "cities"

type CityRepository struct {
	coll *mongo.Collection
	cfg  *balance.Config
}

func NewCityRepository(db *mongo.Database, cfg *balance.Config) *CityRepository {
	return &CityRepository{
		coll: db.Collection(defaultCollectionName),
		cfg:  cfg,
	}
}

func (r *CityRepository) LoadCity(ctx context.Context, id string) (*domain.City, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb city collection is nil")
	}

	var doc model.CityDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCityNotFound.WithData("city_id", id)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return doc.ToCity(r.cfg)
}

func (r *CityRepository) LoadByOwner(ctx context.Context, ownerID int) ([]*domain.City, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *CityRepository) LoadAll(ctx context.Context) ([]*domain.City, error) {
	return r.find(ctx, bson.M{})
}

func (r *CityRepository) find(ctx context.Context, filter bson.M) ([]*domain.City, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb city collection is nil")
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	defer cur.Close(ctx)

	var out []*domain.City
	for cur.Next(ctx) {
		var doc model.CityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errx.ErrUnavailable.WithCause(err)
		}
		c, err := doc.ToCity(r.cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := cur.Err(); err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return out, nil
}

func (r *CityRepository) Save(ctx context.Context, c *domain.City) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb city collection is nil")
	}

	doc := model.FromCity(c)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

// SaveAll 的全有或全无由外层事务保证：必须在 TxRunner.RunTransaction 里调用。
func (r *CityRepository) SaveAll(ctx context.Context, cities []*domain.City) error {
	for _, c := range cities {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
