package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

const (
	fieldExperience = "experience"
	fieldEducation  = "education"
)

// ProfileRepository implements ports.ProfileRepository. List mutations use
// $push/$pull so that each one is atomic on the profile document.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

// --- Documents ---

type socialDoc struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type experienceDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	Location    string             `bson:"location,omitempty"`
	From        time.Time          `bson:"from"`
	To          *time.Time         `bson:"to,omitempty"`
	Current     bool               `bson:"current"`
	Description string             `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	School       string             `bson:"school"`
	Degree       string             `bson:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy"`
	From         time.Time          `bson:"from"`
	To           *time.Time         `bson:"to,omitempty"`
	Current      bool               `bson:"current"`
	Description  string             `bson:"description,omitempty"`
}

type ownerDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Name   string             `bson:"name"`
	Avatar string             `bson:"avatar"`
}

type profileDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	User           primitive.ObjectID `bson:"user"`
	Company        string             `bson:"company,omitempty"`
	Website        string             `bson:"website,omitempty"`
	Location       string             `bson:"location,omitempty"`
	Bio            string             `bson:"bio,omitempty"`
	Status         string             `bson:"status"`
	GithubUsername string             `bson:"githubusername,omitempty"`
	Skills         []string           `bson:"skills"`
	Social         socialDoc          `bson:"social"`
	Experience     []experienceDoc    `bson:"experience"`
	Education      []educationDoc     `bson:"education"`
	Date           time.Time          `bson:"date"`
	// Owner is filled by the $lookup stage.
	Owner []ownerDoc `bson:"owner,omitempty"`
}

// --- Reads ---

func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withOwner(bson.M{"user": oid}))
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find profile: %w", err)
		}
		return nil, domain.ErrProfileNotFound
	}

	var doc profileDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withOwner(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]*domain.Profile, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// withOwner builds the match + join pipeline that attaches the owning user's
// public fields to each profile.
func withOwner(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.password", Value: 0},
			{Key: "owner.email", Value: 0},
		}}},
	}
}

// --- Writes ---

// Upsert writes the patch in one UpdateOne with upsert enabled.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, patch ports.ProfilePatch) (bool, error) {
	oid, ok := objectID(userID)
	if !ok {
		return false, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user": oid}
	update := upsertUpdate(patch, time.Now().UTC())

	res, err := retryOnDuplicate(func(upsert bool) (*mongo.UpdateResult, error) {
		return r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(upsert))
	})
	if err != nil {
		return false, fmt.Errorf("upsert profile: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

// upsertUpdate sets the patch and, on insert only, the empty entry lists and
// the creation date.
func upsertUpdate(patch ports.ProfilePatch, now time.Time) bson.M {
	return bson.M{
		"$set": patchSet(patch),
		"$setOnInsert": bson.M{
			fieldExperience: bson.A{},
			fieldEducation:  bson.A{},
			"date":          now,
		},
	}
}

// retryOnDuplicate runs write as an upsert. A duplicate key error means a
// concurrent request inserted the profile first, so the write is repeated
// once as a plain update.
func retryOnDuplicate(write func(upsert bool) (*mongo.UpdateResult, error)) (*mongo.UpdateResult, error) {
	res, err := write(true)
	if mongo.IsDuplicateKeyError(err) {
		return write(false)
	}
	return res, err
}

// patchSet turns a patch into a $set document. Nil pointers are skipped;
// social links are set by dotted path so unrelated links survive.
func patchSet(p ports.ProfilePatch) bson.M {
	set := bson.M{
		"status": p.Status,
		"skills": p.Skills,
	}
	optional := map[string]*string{
		"company":          p.Company,
		"website":          p.Website,
		"location":         p.Location,
		"bio":              p.Bio,
		"githubusername":   p.GithubUsername,
		"social.youtube":   p.Social.YouTube,
		"social.twitter":   p.Social.Twitter,
		"social.facebook":  p.Social.Facebook,
		"social.linkedin":  p.Social.LinkedIn,
		"social.instagram": p.Social.Instagram,
	}
	for path, v := range optional {
		if v != nil {
			set[path] = *v
		}
	}
	return set
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	oid, ok := objectID(userID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) PushExperience(ctx context.Context, userID string, exp *domain.Experience) error {
	id := primitive.NewObjectID()
	doc := experienceDoc{
		ID:          id,
		Title:       exp.Title,
		Company:     exp.Company,
		Location:    exp.Location,
		From:        exp.From,
		To:          exp.To,
		Current:     exp.Current,
		Description: exp.Description,
	}
	if err := r.prepend(ctx, userID, fieldExperience, doc); err != nil {
		return err
	}
	exp.ID = id.Hex()
	return nil
}

func (r *ProfileRepository) PullExperience(ctx context.Context, userID, expID string) error {
	return r.pull(ctx, userID, fieldExperience, expID)
}

func (r *ProfileRepository) PushEducation(ctx context.Context, userID string, edu *domain.Education) error {
	id := primitive.NewObjectID()
	doc := educationDoc{
		ID:           id,
		School:       edu.School,
		Degree:       edu.Degree,
		FieldOfStudy: edu.FieldOfStudy,
		From:         edu.From,
		To:           edu.To,
		Current:      edu.Current,
		Description:  edu.Description,
	}
	if err := r.prepend(ctx, userID, fieldEducation, doc); err != nil {
		return err
	}
	edu.ID = id.Hex()
	return nil
}

func (r *ProfileRepository) PullEducation(ctx context.Context, userID, eduID string) error {
	return r.pull(ctx, userID, fieldEducation, eduID)
}

// prepend inserts entry at the head of the array field.
func (r *ProfileRepository) prepend(ctx context.Context, userID, field string, entry any) error {
	oid, ok := objectID(userID)
	if !ok {
		return domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"user": oid}, prependUpdate(field, entry))
	if err != nil {
		return fmt.Errorf("push %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// pull removes the entry with entryID from the array field. Unknown and
// malformed entry ids match nothing and leave the array as it was.
func (r *ProfileRepository) pull(ctx context.Context, userID, field, entryID string) error {
	oid, ok := objectID(userID)
	if !ok {
		return domain.ErrProfileNotFound
	}
	entryOID, ok := objectID(entryID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"user": oid}, pullUpdate(field, entryOID))
	if err != nil {
		return fmt.Errorf("pull %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func prependUpdate(field string, entry any) bson.M {
	return bson.M{"$push": bson.M{
		field: bson.M{"$each": bson.A{entry}, "$position": 0},
	}}
}

func pullUpdate(field string, entryID primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{field: bson.M{"_id": entryID}}}
}

// --- Mapping ---

func (d profileDoc) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:             d.ID.Hex(),
		User:           domain.UserSummary{ID: d.User.Hex()},
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GithubUsername: d.GithubUsername,
		Skills:         d.Skills,
		Social: domain.Social{
			YouTube:   d.Social.YouTube,
			Twitter:   d.Social.Twitter,
			Facebook:  d.Social.Facebook,
			LinkedIn:  d.Social.LinkedIn,
			Instagram: d.Social.Instagram,
		},
		Experience: make([]domain.Experience, len(d.Experience)),
		Education:  make([]domain.Education, len(d.Education)),
		Date:       d.Date.UTC(),
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if len(d.Owner) > 0 {
		p.User.Name = d.Owner[0].Name
		p.User.Avatar = d.Owner[0].Avatar
	}
	for i, e := range d.Experience {
		p.Experience[i] = domain.Experience{
			ID:          e.ID.Hex(),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        e.From.UTC(),
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		}
	}
	for i, e := range d.Education {
		p.Education[i] = domain.Education{
			ID:           e.ID.Hex(),
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         e.From.UTC(),
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		}
	}
	return p
}
