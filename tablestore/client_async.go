package tablestore

import (
	"context"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/async"
)

// InvokeOperationAsync submits input as a retrying call and returns without
// waiting. done is invoked exactly once, on a completion-queue worker, with
// the operation's terminal outcome: the result, a permanent service error, a
// retry-exhaustion error, or a cancellation error. Cancel the returned handle
// to abandon the operation.
func (c *Client) InvokeOperationAsync(ctx context.Context, input *OperationInput, done func(*OperationOutput, error), optFns ...func(*Options)) (*async.Handle, error) {
	options := c.options.Copy()

	for _, fn := range optFns {
		fn(&options)
	}

	handle, err := c.submitOperation(ctx, input, &options, done)
	if err != nil {
		return nil, &OperationError{
			OperationName: input.OpName,
			Err:           err}
	}
	return handle, nil
}

// CreateTableAsync is the asynchronous form of CreateTable.
func (c *Client) CreateTableAsync(ctx context.Context, request *CreateTableRequest, done func(*CreateTableResult, error), optFns ...func(*Options)) (*async.Handle, error) {
	input, err := newCreateTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameCreateTable, Err: err}
	}
	return c.InvokeOperationAsync(ctx, input, func(output *OperationOutput, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		result := &CreateTableResult{}
		if err := unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
			done(nil, c.toClientError(err, "UnmarshalOutputFail", output))
			return
		}
		done(result, nil)
	}, optFns...)
}

// GetTableAsync is the asynchronous form of GetTable.
func (c *Client) GetTableAsync(ctx context.Context, request *GetTableRequest, done func(*GetTableResult, error), optFns ...func(*Options)) (*async.Handle, error) {
	input, err := newGetTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameGetTable, Err: err}
	}
	return c.InvokeOperationAsync(ctx, input, func(output *OperationOutput, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		result := &GetTableResult{}
		if err := unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
			done(nil, c.toClientError(err, "UnmarshalOutputFail", output))
			return
		}
		done(result, nil)
	}, optFns...)
}

// DeleteTableAsync is the asynchronous form of DeleteTable.
func (c *Client) DeleteTableAsync(ctx context.Context, request *DeleteTableRequest, done func(*DeleteTableResult, error), optFns ...func(*Options)) (*async.Handle, error) {
	input, err := newDeleteTableInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameDeleteTable, Err: err}
	}
	return c.InvokeOperationAsync(ctx, input, func(output *OperationOutput, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		result := &DeleteTableResult{}
		if err := unmarshalOutput(result, output, discardBody); err != nil {
			done(nil, c.toClientError(err, "UnmarshalOutputFail", output))
			return
		}
		done(result, nil)
	}, optFns...)
}

// ModifyColumnFamiliesAsync is the asynchronous form of ModifyColumnFamilies.
func (c *Client) ModifyColumnFamiliesAsync(ctx context.Context, request *ModifyColumnFamiliesRequest, done func(*ModifyColumnFamiliesResult, error), optFns ...func(*Options)) (*async.Handle, error) {
	input, err := newModifyColumnFamiliesInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameModifyColumnFamilies, Err: err}
	}
	return c.InvokeOperationAsync(ctx, input, func(output *OperationOutput, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		result := &ModifyColumnFamiliesResult{}
		if err := unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
			done(nil, c.toClientError(err, "UnmarshalOutputFail", output))
			return
		}
		done(result, nil)
	}, optFns...)
}

// DropRowRangeAsync is the asynchronous form of DropRowRange.
func (c *Client) DropRowRangeAsync(ctx context.Context, request *DropRowRangeRequest, done func(*DropRowRangeResult, error), optFns ...func(*Options)) (*async.Handle, error) {
	input, err := newDropRowRangeInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameDropRowRange, Err: err}
	}
	return c.InvokeOperationAsync(ctx, input, func(output *OperationOutput, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		result := &DropRowRangeResult{}
		if err := unmarshalOutput(result, output, discardBody); err != nil {
			done(nil, c.toClientError(err, "UnmarshalOutputFail", output))
			return
		}
		done(result, nil)
	}, optFns...)
}
