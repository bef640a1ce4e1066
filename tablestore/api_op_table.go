package tablestore

import (
	"context"
	"strconv"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/rfc3339"
)

const (
	opNameCreateTable = "CreateTable"
	opNameListTables  = "ListTables"
	opNameGetTable    = "GetTable"
	opNameDeleteTable = "DeleteTable"
)

// Table describes a table and, depending on the requested view, its column
// family schema.
type Table struct {
	// The full resource name of the table.
	Name *string `json:"name,omitempty"`

	// The column families of the table, keyed by family id.
	ColumnFamilies map[string]ColumnFamily `json:"columnFamilies,omitempty"`

	// The time at which the table was created.
	CreateTime *rfc3339.Time `json:"createTime,omitempty"`
}

type CreateTableRequest struct {
	// The id of the table to create, unique within its instance.
	TableID *string

	// The column families to create the table with, keyed by family id.
	ColumnFamilies map[string]ColumnFamily

	// Row keys at which the table is pre-split. An empty list leaves the
	// table as a single tablet.
	InitialSplits []string

	RequestCommon
}

type CreateTableResult struct {
	// The full resource name of the created table.
	Name *string `json:"name,omitempty"`

	// The column families of the created table.
	ColumnFamilies map[string]ColumnFamily `json:"columnFamilies,omitempty"`

	// The time at which the table was created.
	CreateTime *rfc3339.Time `json:"createTime,omitempty"`

	ResultCommon
}

type createTableBody struct {
	TableID string `json:"tableId"`

	Table struct {
		ColumnFamilies map[string]ColumnFamily `json:"columnFamilies,omitempty"`
	} `json:"table"`

	InitialSplits []splitKey `json:"initialSplits,omitempty"`
}

type splitKey struct {
	Key string `json:"key"`
}

func newCreateTableInput(request *CreateTableRequest) (*OperationInput, error) {
	if request == nil {
		request = &CreateTableRequest{}
	}
	if !isValidTableID(request.TableID) {
		return nil, NewErrParamInvalid("TableID")
	}

	body := createTableBody{
		TableID: *request.TableID,
	}
	body.Table.ColumnFamilies = request.ColumnFamilies
	for _, key := range request.InitialSplits {
		body.InitialSplits = append(body.InitialSplits, splitKey{Key: key})
	}
	reader, err := marshalInputBody(&body)
	if err != nil {
		return nil, err
	}

	input := &OperationInput{
		OpName: opNameCreateTable,
		Method: "POST",
		Path:   apiVersionPrefix + "/tables",
		Headers: map[string]string{
			HTTPHeaderContentType: contentTypeJSON,
		},
		Body: reader,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Creates a new table, optionally pre-split at the given row keys.
func (c *Client) CreateTable(ctx context.Context, request *CreateTableRequest, optFns ...func(*Options)) (*CreateTableResult, error) {
	input, err := newCreateTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameCreateTable, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &CreateTableResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}

type ListTablesRequest struct {
	// Which fields of the tables to populate. Defaults to NAME_ONLY.
	View TableViewType

	// The maximum number of tables per page. Zero lets the service choose.
	PageSize int32

	// Continuation token from a previous ListTables response.
	PageToken *string

	RequestCommon
}

type ListTablesResult struct {
	// One entry per table.
	Tables []Table `json:"tables,omitempty"`

	// Token for the next page, absent on the last page.
	NextPageToken *string `json:"nextPageToken,omitempty"`

	ResultCommon
}

func newListTablesInput(request *ListTablesRequest) (*OperationInput, error) {
	if request == nil {
		request = &ListTablesRequest{}
	}

	parameters := map[string]string{}
	if len(request.View) > 0 {
		parameters["view"] = string(request.View)
	}
	if request.PageSize > 0 {
		parameters["pageSize"] = strconv.FormatInt(int64(request.PageSize), 10)
	}
	if request.PageToken != nil {
		parameters["pageToken"] = *request.PageToken
	}

	input := &OperationInput{
		OpName:     opNameListTables,
		Method:     "GET",
		Path:       apiVersionPrefix + "/tables",
		Parameters: parameters,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Lists the tables of the instance.
func (c *Client) ListTables(ctx context.Context, request *ListTablesRequest, optFns ...func(*Options)) (*ListTablesResult, error) {
	input, err := newListTablesInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameListTables, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &ListTablesResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}

type GetTableRequest struct {
	// The id of the table to fetch.
	TableID *string

	// Which fields of the table to populate. Defaults to SCHEMA_VIEW.
	View TableViewType

	RequestCommon
}

type GetTableResult struct {
	// The full resource name of the table.
	Name *string `json:"name,omitempty"`

	// The column families of the table.
	ColumnFamilies map[string]ColumnFamily `json:"columnFamilies,omitempty"`

	// The time at which the table was created.
	CreateTime *rfc3339.Time `json:"createTime,omitempty"`

	ResultCommon
}

func newGetTableInput(request *GetTableRequest) (*OperationInput, error) {
	if request == nil {
		request = &GetTableRequest{}
	}
	if !isValidTableID(request.TableID) {
		return nil, NewErrParamInvalid("TableID")
	}

	parameters := map[string]string{}
	if len(request.View) > 0 {
		parameters["view"] = string(request.View)
	}

	input := &OperationInput{
		OpName:     opNameGetTable,
		Method:     "GET",
		Path:       tablePath(*request.TableID),
		Parameters: parameters,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Queries one table.
func (c *Client) GetTable(ctx context.Context, request *GetTableRequest, optFns ...func(*Options)) (*GetTableResult, error) {
	input, err := newGetTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameGetTable, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &GetTableResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}

type DeleteTableRequest struct {
	// The id of the table to delete.
	TableID *string

	RequestCommon
}

type DeleteTableResult struct {
	ResultCommon
}

func newDeleteTableInput(request *DeleteTableRequest) (*OperationInput, error) {
	if request == nil {
		request = &DeleteTableRequest{}
	}
	if !isValidTableID(request.TableID) {
		return nil, NewErrParamInvalid("TableID")
	}

	input := &OperationInput{
		OpName: opNameDeleteTable,
		Method: "DELETE",
		Path:   tablePath(*request.TableID),
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Permanently deletes a table and all of its data.
func (c *Client) DeleteTable(ctx context.Context, request *DeleteTableRequest, optFns ...func(*Options)) (*DeleteTableResult, error) {
	input, err := newDeleteTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameDeleteTable, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &DeleteTableResult{}
	if err = unmarshalOutput(result, output, discardBody); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}
