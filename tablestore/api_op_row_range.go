package tablestore

import "context"

const opNameDropRowRange = "DropRowRange"

type DropRowRangeRequest struct {
	// The id of the table to delete rows from.
	TableID *string

	// Delete all rows whose key starts with this prefix.
	RowKeyPrefix *string

	// Delete every row in the table.
	DeleteAllDataFromTable bool

	RequestCommon
}

type DropRowRangeResult struct {
	ResultCommon
}

type dropRowRangeBody struct {
	RowKeyPrefix           *string `json:"rowKeyPrefix,omitempty"`
	DeleteAllDataFromTable bool    `json:"deleteAllDataFromTable,omitempty"`
}

func newDropRowRangeInput(request *DropRowRangeRequest) (*OperationInput, error) {
	if request == nil {
		request = &DropRowRangeRequest{}
	}
	if !isValidTableID(request.TableID) {
		return nil, NewErrParamInvalid("TableID")
	}
	// The target is either one row key prefix or the whole table, not both
	// and not neither.
	if (request.RowKeyPrefix != nil) == request.DeleteAllDataFromTable {
		return nil, NewErrParamInvalid("RowKeyPrefix,DeleteAllDataFromTable")
	}
	if request.RowKeyPrefix != nil && len(*request.RowKeyPrefix) == 0 {
		return nil, NewErrParamInvalid("RowKeyPrefix")
	}

	reader, err := marshalInputBody(&dropRowRangeBody{
		RowKeyPrefix:           request.RowKeyPrefix,
		DeleteAllDataFromTable: request.DeleteAllDataFromTable,
	})
	if err != nil {
		return nil, err
	}

	input := &OperationInput{
		OpName: opNameDropRowRange,
		Method: "POST",
		Path:   tablePath(*request.TableID) + ":dropRowRange",
		Headers: map[string]string{
			HTTPHeaderContentType: contentTypeJSON,
		},
		Body: reader,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Permanently deletes a contiguous range of rows, either every row sharing a
// key prefix or the whole table. The deleted data is unrecoverable.
func (c *Client) DropRowRange(ctx context.Context, request *DropRowRangeRequest, optFns ...func(*Options)) (*DropRowRangeResult, error) {
	input, err := newDropRowRangeInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameDropRowRange, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &DropRowRangeResult{}
	if err = unmarshalOutput(result, output, discardBody); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}
