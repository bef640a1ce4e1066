package tablestore

import "net/url"

func tablePath(tableID string) string {
	return apiVersionPrefix + "/tables/" + url.PathEscape(tableID)
}

// applyRequestCommon folds caller supplied headers, query parameters and a
// replacement payload into the operation input. Caller values win over the
// values the operation builder set.
func applyRequestCommon(input *OperationInput, common *RequestCommon) {
	if len(common.Headers) > 0 {
		if input.Headers == nil {
			input.Headers = map[string]string{}
		}
		for k, v := range common.Headers {
			input.Headers[k] = v
		}
	}
	if len(common.Parameters) > 0 {
		if input.Parameters == nil {
			input.Parameters = map[string]string{}
		}
		for k, v := range common.Parameters {
			input.Parameters[k] = v
		}
	}
	if common.Payload != nil {
		input.Body = common.Payload
	}
}
