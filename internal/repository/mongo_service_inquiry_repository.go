package repository

import (
	"context"
	"strings"
	"time"

	"github.com/taxmantraa/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// inquiryDoc is the stored shape of a service inquiry.
type inquiryDoc struct {
	ID               primitive.ObjectID `bson:"_id"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Mobile           string             `bson:"mobile"`
	Occupation       string             `bson:"occupation"`
	ServiceCategory  string             `bson:"serviceCategory"`
	SelectedServices []string           `bson:"selectedServices"`
	Message          string             `bson:"message"`
	Status           string             `bson:"status"`
	Priority         string             `bson:"priority"`
	IPAddress        *string            `bson:"ipAddress"`
	UserAgent        *string            `bson:"userAgent"`
	LeadSource       string             `bson:"leadSource"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// MongoServiceInquiryRepository is the MongoDB implementation of ServiceInquiryRepository.
type MongoServiceInquiryRepository struct {
	coll *mongo.Collection
}

// NewMongoServiceInquiryRepository creates a repository over the service-inquiries collection.
func NewMongoServiceInquiryRepository(store *MongoStore) *MongoServiceInquiryRepository {
	return &MongoServiceInquiryRepository{coll: store.db.Collection(ServiceInquiryCollection)}
}

var _ ServiceInquiryRepository = (*MongoServiceInquiryRepository)(nil)

func (r *MongoServiceInquiryRepository) Create(ctx context.Context, s *model.ServiceInquiryRecord) error {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return err
	}
	doc := inquiryDoc{
		ID:               oid,
		Name:             s.Name,
		Email:            s.Email,
		Mobile:           s.Mobile,
		Occupation:       s.Occupation,
		ServiceCategory:  s.ServiceCategory,
		SelectedServices: s.SelectedServices,
		Message:          s.Message,
		Status:           s.Status,
		Priority:         s.Priority,
		IPAddress:        optional(s.IPAddress),
		UserAgent:        optional(s.UserAgent),
		LeadSource:       s.LeadSource,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mongoError(err)
}

func (r *MongoServiceInquiryRepository) FindByID(ctx context.Context, id string) (*model.ServiceInquiryRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc inquiryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoServiceInquiryRepository) List(ctx context.Context, opts model.ServiceInquiryListOptions) ([]*model.ServiceInquiryRecord, int, error) {
	filter := inquiryFilter(opts)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var inquiries []*model.ServiceInquiryRecord
	for cur.Next(ctx) {
		var doc inquiryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, doc.toModel())
	}
	return inquiries, int(total), cur.Err()
}

func (r *MongoServiceInquiryRepository) Update(ctx context.Context, id string, u model.ServiceInquiryUpdate) (*model.ServiceInquiryRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}

	var doc inquiryDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func inquiryFilter(opts model.ServiceInquiryListOptions) bson.M {
	filter := bson.M{}
	if s := strings.TrimSpace(opts.Status); s != "" {
		filter["status"] = s
	}
	if c := strings.TrimSpace(opts.ServiceCategory); c != "" {
		filter["serviceCategory"] = c
	}
	return filter
}

func (d *inquiryDoc) toModel() *model.ServiceInquiryRecord {
	return &model.ServiceInquiryRecord{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		Mobile:           d.Mobile,
		Occupation:       d.Occupation,
		ServiceCategory:  d.ServiceCategory,
		SelectedServices: d.SelectedServices,
		Message:          d.Message,
		Status:           d.Status,
		Priority:         d.Priority,
		IPAddress:        deref(d.IPAddress),
		UserAgent:        deref(d.UserAgent),
		LeadSource:       d.LeadSource,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}
