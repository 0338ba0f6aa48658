package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = interfaces.ErrNotFound

// Collection names without prefix
const (
	DivisionsCollection       = "divisions"
	TeamsCollection           = "teams"
	ServicesCollection        = "services"
	RiskAssessmentsCollection = "risk_assessments"
	TokensCollection          = "tokens"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
	division         *divisionRepository
	team             *teamRepository
	service          *serviceRepository
	assessment       *assessmentRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates collections, e.g. per test run or environment
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.division = &divisionRepository{client: client, collection: f.collectionName(DivisionsCollection)}
	f.team = &teamRepository{client: client, collection: f.collectionName(TeamsCollection)}
	f.service = &serviceRepository{client: client, collection: f.collectionName(ServicesCollection)}
	f.assessment = &assessmentRepository{client: client, collection: f.collectionName(RiskAssessmentsCollection)}

	return f, nil
}

// CollectionName returns the prefixed name of a collection
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

func (f *Firestore) collectionName(name string) string {
	return CollectionName(f.collectionPrefix, name)
}

func (f *Firestore) Division() interfaces.DivisionRepository {
	return f.division
}

func (f *Firestore) Team() interfaces.TeamRepository {
	return f.team
}

func (f *Firestore) Service() interfaces.ServiceRepository {
	return f.service
}

func (f *Firestore) RiskAssessment() interfaces.RiskAssessmentRepository {
	return f.assessment
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// getDoc loads a document into dst, mapping a missing document to ErrNotFound
func getDoc(ctx context.Context, ref *firestore.DocumentRef, dst any, kind string) error {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", ref.ID))
		}
		return goerr.Wrap(err, "failed to get "+kind, goerr.V("id", ref.ID))
	}
	if err := doc.DataTo(dst); err != nil {
		return goerr.Wrap(err, "failed to unmarshal "+kind, goerr.V("id", ref.ID))
	}
	return nil
}

func deleteDoc(ctx context.Context, ref *firestore.DocumentRef, kind string) error {
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", ref.ID))
		}
		return goerr.Wrap(err, "failed to get "+kind, goerr.V("id", ref.ID))
	}
	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete "+kind, goerr.V("id", ref.ID))
	}
	return nil
}

// collect drains a document iterator into documents of type D
func collect[D any](iter *firestore.DocumentIterator, kind string) ([]*D, error) {
	defer iter.Stop()

	var docs []*D
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate "+kind)
		}

		var d D
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal "+kind, goerr.V("id", doc.Ref.ID))
		}
		docs = append(docs, &d)
	}
	return docs, nil
}
