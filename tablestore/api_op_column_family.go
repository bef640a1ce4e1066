package tablestore

import (
	"context"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/rfc3339"
)

const opNameModifyColumnFamilies = "ModifyColumnFamilies"

// ColumnFamilyModification is a single change applied by ModifyColumnFamilies.
// Exactly one of Create, Update or Drop must be set.
type ColumnFamilyModification struct {
	// The id of the column family to create, update or drop.
	ID *string `json:"id"`

	// Create a new column family with this schema.
	Create *ColumnFamily `json:"create,omitempty"`

	// Update an existing column family to this schema.
	Update *ColumnFamily `json:"update,omitempty"`

	// Drop the column family and all of its data.
	Drop bool `json:"drop,omitempty"`
}

// CreateColumnFamily builds a modification that adds a column family.
func CreateColumnFamily(id string, family ColumnFamily) ColumnFamilyModification {
	return ColumnFamilyModification{ID: Ptr(id), Create: &family}
}

// UpdateColumnFamily builds a modification that replaces a column family's
// schema, garbage collection rule included.
func UpdateColumnFamily(id string, family ColumnFamily) ColumnFamilyModification {
	return ColumnFamilyModification{ID: Ptr(id), Update: &family}
}

// DropColumnFamily builds a modification that removes a column family and
// deletes its data.
func DropColumnFamily(id string) ColumnFamilyModification {
	return ColumnFamilyModification{ID: Ptr(id), Drop: true}
}

type ModifyColumnFamiliesRequest struct {
	// The id of the table whose families are modified.
	TableID *string

	// The changes to apply. The service applies them in order, atomically.
	Modifications []ColumnFamilyModification

	RequestCommon
}

type ModifyColumnFamiliesResult struct {
	// The full resource name of the modified table.
	Name *string `json:"name,omitempty"`

	// The column families of the table after all modifications were applied.
	ColumnFamilies map[string]ColumnFamily `json:"columnFamilies,omitempty"`

	// The time at which the table was created.
	CreateTime *rfc3339.Time `json:"createTime,omitempty"`

	ResultCommon
}

type modifyColumnFamiliesBody struct {
	Modifications []ColumnFamilyModification `json:"modifications"`
}

func validateModification(m *ColumnFamilyModification) error {
	if m.ID == nil || len(*m.ID) == 0 {
		return NewErrParamRequired("Modifications[].ID")
	}
	set := 0
	if m.Create != nil {
		set++
	}
	if m.Update != nil {
		set++
	}
	if m.Drop {
		set++
	}
	if set != 1 {
		return NewErrParamInvalid("Modifications[]")
	}
	return nil
}

func newModifyColumnFamiliesInput(request *ModifyColumnFamiliesRequest) (*OperationInput, error) {
	if request == nil {
		request = &ModifyColumnFamiliesRequest{}
	}
	if !isValidTableID(request.TableID) {
		return nil, NewErrParamInvalid("TableID")
	}
	if len(request.Modifications) == 0 {
		return nil, NewErrParamRequired("Modifications")
	}
	for i := range request.Modifications {
		if err := validateModification(&request.Modifications[i]); err != nil {
			return nil, err
		}
	}

	reader, err := marshalInputBody(&modifyColumnFamiliesBody{
		Modifications: request.Modifications,
	})
	if err != nil {
		return nil, err
	}

	input := &OperationInput{
		OpName: opNameModifyColumnFamilies,
		Method: "POST",
		Path:   tablePath(*request.TableID) + ":modifyColumnFamilies",
		Headers: map[string]string{
			HTTPHeaderContentType: contentTypeJSON,
		},
		Body: reader,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Atomically creates, updates or drops column families on a table. Either
// all modifications apply or none do.
func (c *Client) ModifyColumnFamilies(ctx context.Context, request *ModifyColumnFamiliesRequest, optFns ...func(*Options)) (*ModifyColumnFamiliesResult, error) {
	input, err := newModifyColumnFamiliesInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameModifyColumnFamilies, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &ModifyColumnFamiliesResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}
