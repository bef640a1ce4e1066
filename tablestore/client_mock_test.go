package tablestore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/stratusdata/stratus-table-go-sdk/tablestore/async"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/credentials"
	"github.com/stratusdata/stratus-table-go-sdk/tablestore/retry"
)

func testSetupMockServer(t *testing.T, statusCode int, headers map[string]string, body []byte,
	chkfunc func(t *testing.T, r *http.Request)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// check request
		chkfunc(t, r)

		// headers
		for k, v := range headers {
			w.Header().Set(k, v)
		}

		// status code
		w.WriteHeader(statusCode)

		// body
		w.Write(body)
	}))
}

// fastRetryer keeps retry tests quick.
func fastRetryer(maxAttempts int) retry.Retryer {
	return retry.NewStandard(func(o *retry.RetryOptions) {
		o.MaxAttempts = maxAttempts
		o.BaseDelay = 1 * time.Millisecond
		o.MaxBackoff = 10 * time.Millisecond
	})
}

func TestInvokeOperationSuccess(t *testing.T) {
	server := testSetupMockServer(t, 200, map[string]string{
		"X-Stratus-Request-Id": "req-0001",
		"Content-Type":         "application/json",
	}, []byte(`{"tables":[{"name":"projects/p/instances/i/tables/events"}]}`),
		func(t *testing.T, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/v2/tables", r.URL.Path)
			assert.Equal(t, "NAME_ONLY", r.URL.Query().Get("view"))
			assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "stratus-table-go/"))
			// anonymous client, no token header
			assert.Empty(t, r.Header.Get("Authorization"))
		})
	defer server.Close()

	cfg := LoadDefaultConfig().WithEndpoint(server.URL)
	client := New(cfg)
	defer client.Close()

	result, err := client.ListTables(context.TODO(), &ListTablesRequest{
		View: TableViewNameOnly,
	})
	require.NoError(t, err)
	require.Len(t, result.Tables, 1)
	assert.Equal(t, "projects/p/instances/i/tables/events", *result.Tables[0].Name)
	assert.Nil(t, result.NextPageToken)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "req-0001", result.Headers.Get("X-Stratus-Request-Id"))
}

func TestInvokeOperationSignsWithBearerToken(t *testing.T) {
	server := testSetupMockServer(t, 200, nil, []byte(`{}`),
		func(t *testing.T, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Stratus-Date"))
		})
	defer server.Close()

	cfg := LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test-token"))
	client := New(cfg)
	defer client.Close()

	_, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("events"),
	})
	require.NoError(t, err)
}

func TestInvokeOperationRetriesTransient(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) <= 2 {
			w.WriteHeader(503)
			w.Write([]byte(`{"error":{"code":503,"status":"UNAVAILABLE","message":"try again"}}`))
			return
		}
		w.Write([]byte(`{"name":"projects/p/instances/i/tables/events"}`))
	}))
	defer server.Close()

	cfg := LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(fastRetryer(5))
	client := New(cfg)
	defer client.Close()

	result, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("events"),
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/instances/i/tables/events", *result.Name)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestInvokeOperationPermanentNoRetry(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("X-Stratus-Request-Id", "req-0404")
		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"code":404,"status":"NOT_FOUND","message":"table not found"}}`))
	}))
	defer server.Close()

	cfg := LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(fastRetryer(5))
	client := New(cfg)
	defer client.Close()

	_, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("missing"),
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "GetTable", opErr.OperationName)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
	assert.Equal(t, codes.NotFound, svcErr.Code)
	assert.Equal(t, "table not found", svcErr.Message)
	assert.Equal(t, "req-0404", svcErr.RequestID)
}

func TestInvokeOperationExhaustsAttempts(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(503)
		w.Write([]byte(`{"error":{"code":503,"status":"UNAVAILABLE","message":"overloaded"}}`))
	}))
	defer server.Close()

	cfg := LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(fastRetryer(2))
	client := New(cfg)
	defer client.Close()

	_, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("events"),
	})
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))

	var maxErr *retry.MaxAttemptsError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, 2, maxErr.Attempts)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, codes.Unavailable, svcErr.Code)
}

func TestInvokeOperationErrorBodyFallback(t *testing.T) {
	server := testSetupMockServer(t, 502, nil, []byte(`<html>bad gateway</html>`),
		func(t *testing.T, r *http.Request) {})
	defer server.Close()

	cfg := LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(retry.NopRetryer{})
	client := New(cfg)
	defer client.Close()

	_, err := client.DeleteTable(context.TODO(), &DeleteTableRequest{
		TableID: Ptr("events"),
	})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Equal(t, codes.Internal, svcErr.Code)
	assert.Contains(t, string(svcErr.Snapshot), "bad gateway")
}

func TestInvokeOperationMissingEndpoint(t *testing.T) {
	client := New(LoadDefaultConfig())
	defer client.Close()

	_, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("events"),
	})
	require.Error(t, err)

	var cliErr *ClientError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "MissingRequiredParameter", cliErr.Code)
	assert.Contains(t, cliErr.Message, "Endpoint")
}

func TestCreateTableMock(t *testing.T) {
	server := testSetupMockServer(t, 200, nil, []byte(
		`{"name":"projects/p/instances/i/tables/events",`+
			`"columnFamilies":{"cf1":{"gcRule":{"maxNumVersions":3}}},`+
			`"createTime":"2026-02-11T09:30:00.123Z"}`),
		func(t *testing.T, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/v2/tables", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "events", got["tableId"])
			splits := got["initialSplits"].([]any)
			require.Len(t, splits, 2)
			assert.Equal(t, map[string]any{"key": "row-100"}, splits[0])
		})
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))
	defer client.Close()

	result, err := client.CreateTable(context.TODO(), &CreateTableRequest{
		TableID: Ptr("events"),
		ColumnFamilies: map[string]ColumnFamily{
			"cf1": {GcRule: MaxNumVersionsGcRule(3)},
		},
		InitialSplits: []string{"row-100", "row-200"},
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/instances/i/tables/events", *result.Name)
	require.Contains(t, result.ColumnFamilies, "cf1")
	assert.Equal(t, int32(3), *result.ColumnFamilies["cf1"].GcRule.MaxNumVersions)
	assert.Equal(t, time.Date(2026, 2, 11, 9, 30, 0, 123000000, time.UTC), result.CreateTime.AsTime())
}

func TestModifyColumnFamiliesMock(t *testing.T) {
	server := testSetupMockServer(t, 200, nil, []byte(
		`{"name":"projects/p/instances/i/tables/events",`+
			`"columnFamilies":{"cf2":{"gcRule":{"maxAge":"86400s"}}}}`),
		func(t *testing.T, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/v2/tables/events:modifyColumnFamilies", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var got modifyColumnFamiliesBody
			require.NoError(t, json.Unmarshal(body, &got))
			require.Len(t, got.Modifications, 2)
			assert.Equal(t, "cf2", *got.Modifications[0].ID)
			assert.NotNil(t, got.Modifications[0].Create)
			assert.True(t, got.Modifications[1].Drop)
		})
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))
	defer client.Close()

	result, err := client.ModifyColumnFamilies(context.TODO(), &ModifyColumnFamiliesRequest{
		TableID: Ptr("events"),
		Modifications: []ColumnFamilyModification{
			CreateColumnFamily("cf2", ColumnFamily{GcRule: MaxAgeGcRule(24 * time.Hour)}),
			DropColumnFamily("cf1"),
		},
	})
	require.NoError(t, err)
	require.Contains(t, result.ColumnFamilies, "cf2")
	assert.Equal(t, Duration(24*time.Hour), *result.ColumnFamilies["cf2"].GcRule.MaxAge)
}

func TestDropRowRangeMock(t *testing.T) {
	server := testSetupMockServer(t, 200, nil, []byte(`{}`),
		func(t *testing.T, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/v2/tables/events:dropRowRange", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var got dropRowRangeBody
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "user#42#", *got.RowKeyPrefix)
			assert.False(t, got.DeleteAllDataFromTable)
		})
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))
	defer client.Close()

	result, err := client.DropRowRange(context.TODO(), &DropRowRangeRequest{
		TableID:      Ptr("events"),
		RowKeyPrefix: Ptr("user#42#"),
	})
	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode)
}

func TestListTablesPaginatorMock(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&requests, 1) {
		case 1:
			assert.Equal(t, "", r.URL.Query().Get("pageToken"))
			assert.Equal(t, "2", r.URL.Query().Get("pageSize"))
			w.Write([]byte(`{"tables":[{"name":"t/a"},{"name":"t/b"}],"nextPageToken":"tok-2"}`))
		case 2:
			assert.Equal(t, "tok-2", r.URL.Query().Get("pageToken"))
			w.Write([]byte(`{"tables":[{"name":"t/c"}]}`))
		default:
			t.Error("unexpected extra page request")
		}
	}))
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))
	defer client.Close()

	p := client.NewListTablesPaginator(&ListTablesRequest{PageSize: 2})

	var names []string
	for p.HasNext() {
		page, err := p.NextPage(context.TODO())
		require.NoError(t, err)
		for _, table := range page.Tables {
			names = append(names, *table.Name)
		}
	}
	assert.Equal(t, []string{"t/a", "t/b", "t/c"}, names)

	_, err := p.NextPage(context.TODO())
	assert.Error(t, err)
}

func TestCreateTableAsyncMock(t *testing.T) {
	server := testSetupMockServer(t, 200, nil,
		[]byte(`{"name":"projects/p/instances/i/tables/events"}`),
		func(t *testing.T, r *http.Request) {})
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))
	defer client.Close()

	type outcome struct {
		result *CreateTableResult
		err    error
	}
	done := make(chan outcome, 1)

	handle, err := client.CreateTableAsync(context.TODO(), &CreateTableRequest{
		TableID: Ptr("events"),
	}, func(result *CreateTableResult, err error) {
		done <- outcome{result, err}
	})
	require.NoError(t, err)
	require.NotNil(t, handle)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "projects/p/instances/i/tables/events", *got.result.Name)
}

func TestAsyncDoneReceivesTerminalError(t *testing.T) {
	server := testSetupMockServer(t, 404, nil,
		[]byte(`{"error":{"code":404,"status":"NOT_FOUND","message":"gone"}}`),
		func(t *testing.T, r *http.Request) {})
	defer server.Close()

	client := New(LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(fastRetryer(3)))
	defer client.Close()

	done := make(chan error, 1)
	_, err := client.DeleteTableAsync(context.TODO(), &DeleteTableRequest{
		TableID: Ptr("events"),
	}, func(result *DeleteTableResult, err error) {
		done <- err
	})
	require.NoError(t, err)

	got := <-done
	require.Error(t, got)
	var svcErr *ServiceError
	require.ErrorAs(t, got, &svcErr)
	assert.Equal(t, codes.NotFound, svcErr.Code)
}

func TestClientCloseDrains(t *testing.T) {
	server := testSetupMockServer(t, 200, nil, []byte(`{}`),
		func(t *testing.T, r *http.Request) {})
	defer server.Close()

	client := New(LoadDefaultConfig().WithEndpoint(server.URL))

	_, err := client.GetTable(context.TODO(), &GetTableRequest{TableID: Ptr("events")})
	require.NoError(t, err)

	require.NoError(t, client.Close())

	// submissions after Close fail fast
	_, err = client.GetTable(context.TODO(), &GetTableRequest{TableID: Ptr("events")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, async.ErrShutdown))
}

func TestPerCallOptionsOverride(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(503)
		w.Write([]byte(`{"error":{"code":503,"status":"UNAVAILABLE","message":"overloaded"}}`))
	}))
	defer server.Close()

	client := New(LoadDefaultConfig().
		WithEndpoint(server.URL).
		WithRetryer(fastRetryer(5)))
	defer client.Close()

	_, err := client.GetTable(context.TODO(), &GetTableRequest{
		TableID: Ptr("events"),
	}, func(o *Options) {
		o.Retryer = retry.NopRetryer{}
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}
