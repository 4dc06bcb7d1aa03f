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

// contactDoc is the stored shape of a contact in the contact-form collection.
type contactDoc struct {
	ID               primitive.ObjectID `bson:"_id"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	Message          string             `bson:"message"`
	Status           string             `bson:"status"`
	Priority         string             `bson:"priority"`
	Source           string             `bson:"source"`
	IPAddress        *string            `bson:"ipAddress"`
	UserAgent        *string            `bson:"userAgent"`
	EmailSent        bool               `bson:"emailSent"`
	EmailSentAt      *time.Time         `bson:"emailSentAt"`
	AutoReplySent    bool               `bson:"autoReplySent"`
	AutoReplySentAt  *time.Time         `bson:"autoReplySentAt"`
	FollowUpRequired bool               `bson:"followUpRequired"`
	FollowUpDate     *time.Time         `bson:"followUpDate"`
	Tags             []string           `bson:"tags"`
	Notes            *string            `bson:"notes"`
	AssignedTo       *string            `bson:"assignedTo"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// MongoContactRepository is the MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a repository over the contact-form collection.
func NewMongoContactRepository(store *MongoStore) *MongoContactRepository {
	return &MongoContactRepository{coll: store.db.Collection(ContactCollection)}
}

var _ ContactRepository = (*MongoContactRepository)(nil)

func (r *MongoContactRepository) Create(ctx context.Context, c *model.ContactRecord) error {
	doc, err := toContactDoc(c)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mongoError(err)
}

func (r *MongoContactRepository) FindByID(ctx context.Context, id string) (*model.ContactRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc contactDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func (r *MongoContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, int, error) {
	filter := contactFilter(opts)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var contacts []*model.ContactRecord
	for cur.Next(ctx) {
		var doc contactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, doc.toModel())
	}
	return contacts, int(total), cur.Err()
}

func (r *MongoContactRepository) Update(ctx context.Context, id string, u model.ContactUpdate) (*model.ContactRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc contactDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": contactSet(u, time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func contactFilter(opts model.ContactListOptions) bson.M {
	filter := bson.M{}
	if s := strings.TrimSpace(opts.Status); s != "" && s != "all" {
		filter["status"] = s
	}
	if p := strings.TrimSpace(opts.Priority); p != "" && p != "all" {
		filter["priority"] = p
	}
	return filter
}

// contactSet builds the $set document for the non-nil fields of u.
func contactSet(u model.ContactUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.Notes != nil {
		set["notes"] = optional(*u.Notes)
	}
	if u.AssignedTo != nil {
		set["assignedTo"] = optional(*u.AssignedTo)
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.FollowUpRequired != nil {
		set["followUpRequired"] = *u.FollowUpRequired
	}
	if u.FollowUpDate != nil {
		set["followUpDate"] = *u.FollowUpDate
	}
	if u.EmailSent != nil {
		set["emailSent"] = *u.EmailSent
	}
	if u.EmailSentAt != nil {
		set["emailSentAt"] = *u.EmailSentAt
	}
	if u.AutoReplySent != nil {
		set["autoReplySent"] = *u.AutoReplySent
	}
	if u.AutoReplySentAt != nil {
		set["autoReplySentAt"] = *u.AutoReplySentAt
	}
	return set
}

func toContactDoc(c *model.ContactRecord) (*contactDoc, error) {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, err
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &contactDoc{
		ID:               oid,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Message:          c.Message,
		Status:           c.Status,
		Priority:         c.Priority,
		Source:           c.Source,
		IPAddress:        optional(c.IPAddress),
		UserAgent:        optional(c.UserAgent),
		EmailSent:        c.EmailSent,
		EmailSentAt:      c.EmailSentAt,
		AutoReplySent:    c.AutoReplySent,
		AutoReplySentAt:  c.AutoReplySentAt,
		FollowUpRequired: c.FollowUpRequired,
		FollowUpDate:     c.FollowUpDate,
		Tags:             tags,
		Notes:            optional(c.Notes),
		AssignedTo:       optional(c.AssignedTo),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

func (d *contactDoc) toModel() *model.ContactRecord {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.ContactRecord{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		Message:          d.Message,
		Status:           d.Status,
		Priority:         d.Priority,
		Source:           d.Source,
		IPAddress:        deref(d.IPAddress),
		UserAgent:        deref(d.UserAgent),
		EmailSent:        d.EmailSent,
		EmailSentAt:      utcPtr(d.EmailSentAt),
		AutoReplySent:    d.AutoReplySent,
		AutoReplySentAt:  utcPtr(d.AutoReplySentAt),
		FollowUpRequired: d.FollowUpRequired,
		FollowUpDate:     utcPtr(d.FollowUpDate),
		Tags:             tags,
		Notes:            deref(d.Notes),
		AssignedTo:       deref(d.AssignedTo),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

// optional stores empty strings as null, matching the schema defaults.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
