// Package mongostore implements data.Store over MongoDB with a users and a
// tasks collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Role     string             `bson:"role"`
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Owner       string             `bson:"owner"`
}

func (d taskDoc) toTask() data.Task {
	return data.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Owner:       d.Owner,
	}
}

// Store is a MongoDB-backed data.Store.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

var _ data.Store = (*Store)(nil)

// Open connects to uri, selects database dbName and ensures the unique email
// index exists.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	if strings.TrimSpace(dbName) == "" {
		return nil, fmt.Errorf("database name is required")
	}
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
	}

	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "owner", Value: 1}}}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return s, nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("store is not open")
	}
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), data.QueryTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) InsertUser(ctx context.Context, u *data.User) error {
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	_, err := s.users.InsertOne(ctx, userDoc{Email: u.Email, Password: u.PasswordHash, Role: string(u.Role)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return data.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, data.ErrNotFound
		default:
			return nil, err
		}
	}
	role := data.Role(doc.Role)
	if role == "" {
		role = data.RoleUser
	}
	return &data.User{Email: doc.Email, PasswordHash: doc.Password, Role: role}, nil
}

func (s *Store) InsertTask(ctx context.Context, t *data.Task) error {
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	doc := taskDoc{ID: primitive.NewObjectID(), Title: t.Title, Description: t.Description, Owner: t.Owner}
	if _, err := s.tasks.InsertOne(ctx, doc); err != nil {
		return err
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (s *Store) ListTasks(ctx context.Context, f data.TaskFilter) ([]data.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Owner != "" {
		filter["owner"] = f.Owner
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := []data.Task{}
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.toTask())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *data.Task) error {
	id, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return data.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "owner": t.Owner}
	update := bson.M{"$set": bson.M{"title": t.Title, "description": t.Description}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDoc
	err = s.tasks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return data.ErrNotFound
		default:
			return err
		}
	}
	*t = doc.toTask()
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, owner string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return data.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, data.QueryTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if owner != "" {
		filter["owner"] = owner
	}
	res, err := s.tasks.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}
