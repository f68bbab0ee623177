package wire

import (
	"fmt"

	"github.com/dmitrijs2005/registo/internal/common"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	keyCollection = "collection"
	keyData       = "data"
	keyID         = "id"
	keyOrderBy    = "orderBy"
	keyDesc       = "desc"
)

// WatchRequest asks for the live snapshot of a collection. An empty
// OrderBy means natural (insertion) order.
type WatchRequest struct {
	Collection string
	OrderBy    string
	Desc       bool
}

type InsertRequest struct {
	Collection string
	Data       map[string]any
}

type DeleteRequest struct {
	Collection string
	ID         string
}

// Document is one element of a snapshot.
type Document struct {
	ID   string
	Data map[string]any
}

func (r WatchRequest) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		keyCollection: r.Collection,
		keyOrderBy:    r.OrderBy,
		keyDesc:       r.Desc,
	})
}

func ParseWatchRequest(s *structpb.Struct) (WatchRequest, error) {
	collection, err := requiredString(s, keyCollection)
	if err != nil {
		return WatchRequest{}, err
	}
	f := s.GetFields()
	return WatchRequest{
		Collection: collection,
		OrderBy:    f[keyOrderBy].GetStringValue(),
		Desc:       f[keyDesc].GetBoolValue(),
	}, nil
}

func (r InsertRequest) Proto() (*structpb.Struct, error) {
	data, err := structpb.NewStruct(r.Data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		keyCollection: structpb.NewStringValue(r.Collection),
		keyData:       structpb.NewStructValue(data),
	}}, nil
}

func ParseInsertRequest(s *structpb.Struct) (InsertRequest, error) {
	collection, err := requiredString(s, keyCollection)
	if err != nil {
		return InsertRequest{}, err
	}
	data := s.GetFields()[keyData].GetStructValue()
	if data == nil {
		return InsertRequest{}, fmt.Errorf("%w: %s is required", common.ErrorValidation, keyData)
	}
	return InsertRequest{Collection: collection, Data: data.AsMap()}, nil
}

func (r DeleteRequest) Proto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		keyCollection: r.Collection,
		keyID:         r.ID,
	})
}

func ParseDeleteRequest(s *structpb.Struct) (DeleteRequest, error) {
	collection, err := requiredString(s, keyCollection)
	if err != nil {
		return DeleteRequest{}, err
	}
	id, err := requiredString(s, keyID)
	if err != nil {
		return DeleteRequest{}, err
	}
	return DeleteRequest{Collection: collection, ID: id}, nil
}

func EncodeSnapshot(docs []Document) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, 0, len(docs))
	for _, d := range docs {
		data, err := structpb.NewStruct(d.Data)
		if err != nil {
			return nil, fmt.Errorf("encode document %s: %w", d.ID, err)
		}
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			keyID:   structpb.NewStringValue(d.ID),
			keyData: structpb.NewStructValue(data),
		}}))
	}
	return &structpb.ListValue{Values: values}, nil
}

func DecodeSnapshot(l *structpb.ListValue) ([]Document, error) {
	docs := make([]Document, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("snapshot item %d: not an object", i)
		}
		id := s.GetFields()[keyID].GetStringValue()
		if id == "" {
			return nil, fmt.Errorf("snapshot item %d: missing id", i)
		}
		data := map[string]any{}
		if ds := s.GetFields()[keyData].GetStructValue(); ds != nil {
			data = ds.AsMap()
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, nil
}

func requiredString(s *structpb.Struct, key string) (string, error) {
	v := s.GetFields()[key].GetStringValue()
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", common.ErrorValidation, key)
	}
	return v, nil
}
