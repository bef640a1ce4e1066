package tablestore

import (
	"context"
	"net/url"
	"strconv"
)

const (
	opNameCreateAppProfile = "CreateAppProfile"
	opNameGetAppProfile    = "GetAppProfile"
	opNameDeleteAppProfile = "DeleteAppProfile"
)

func appProfilePath(profileID string) string {
	return apiVersionPrefix + "/appProfiles/" + url.PathEscape(profileID)
}

type CreateAppProfileRequest struct {
	// The id of the profile and its routing policy. Build with
	// MultiClusterUseAnyAppProfile or SingleClusterRoutingAppProfile.
	Config AppProfileConfig

	// Create the profile even if the service warns about its routing, for
	// example a single-cluster profile pointing at a draining cluster.
	IgnoreWarnings bool

	RequestCommon
}

type CreateAppProfileResult struct {
	// The full resource name of the created profile.
	Name *string `json:"name,omitempty"`

	Description *string `json:"description,omitempty"`

	MultiClusterRoutingUseAny *MultiClusterRoutingUseAny `json:"multiClusterRoutingUseAny,omitempty"`

	SingleClusterRouting *SingleClusterRouting `json:"singleClusterRouting,omitempty"`

	ResultCommon
}

func newCreateAppProfileInput(request *CreateAppProfileRequest) (*OperationInput, error) {
	if request == nil {
		request = &CreateAppProfileRequest{}
	}
	if !isValidAppProfileID(request.Config.ProfileID) {
		return nil, NewErrParamInvalid("Config.ProfileID")
	}
	if (request.Config.Profile.MultiClusterRoutingUseAny != nil) ==
		(request.Config.Profile.SingleClusterRouting != nil) {
		return nil, NewErrParamInvalid("Config.Profile")
	}
	if r := request.Config.Profile.SingleClusterRouting; r != nil && !isValidResourceID(r.ClusterID) {
		return nil, NewErrParamInvalid("Config.Profile.SingleClusterRouting.ClusterID")
	}

	reader, err := marshalInputBody(&request.Config.Profile)
	if err != nil {
		return nil, err
	}

	parameters := map[string]string{
		"appProfileId": *request.Config.ProfileID,
	}
	if request.IgnoreWarnings {
		parameters["ignoreWarnings"] = strconv.FormatBool(true)
	}

	input := &OperationInput{
		OpName:     opNameCreateAppProfile,
		Method:     "POST",
		Path:       apiVersionPrefix + "/appProfiles",
		Parameters: parameters,
		Headers: map[string]string{
			HTTPHeaderContentType: contentTypeJSON,
		},
		Body: reader,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Creates an app profile carrying a request routing policy.
func (c *Client) CreateAppProfile(ctx context.Context, request *CreateAppProfileRequest, optFns ...func(*Options)) (*CreateAppProfileResult, error) {
	input, err := newCreateAppProfileInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameCreateAppProfile, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &CreateAppProfileResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}

type GetAppProfileRequest struct {
	// The id of the profile to fetch.
	ProfileID *string

	RequestCommon
}

type GetAppProfileResult struct {
	// The full resource name of the profile.
	Name *string `json:"name,omitempty"`

	Description *string `json:"description,omitempty"`

	MultiClusterRoutingUseAny *MultiClusterRoutingUseAny `json:"multiClusterRoutingUseAny,omitempty"`

	SingleClusterRouting *SingleClusterRouting `json:"singleClusterRouting,omitempty"`

	ResultCommon
}

func newGetAppProfileInput(request *GetAppProfileRequest) (*OperationInput, error) {
	if request == nil {
		request = &GetAppProfileRequest{}
	}
	if !isValidAppProfileID(request.ProfileID) {
		return nil, NewErrParamInvalid("ProfileID")
	}

	input := &OperationInput{
		OpName: opNameGetAppProfile,
		Method: "GET",
		Path:   appProfilePath(*request.ProfileID),
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Queries one app profile.
func (c *Client) GetAppProfile(ctx context.Context, request *GetAppProfileRequest, optFns ...func(*Options)) (*GetAppProfileResult, error) {
	input, err := newGetAppProfileInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameGetAppProfile, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &GetAppProfileResult{}
	if err = unmarshalOutput(result, output, unmarshalBodyJSON); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}

type DeleteAppProfileRequest struct {
	// The id of the profile to delete.
	ProfileID *string

	// Delete the profile even if applications still reference it.
	IgnoreWarnings bool

	RequestCommon
}

type DeleteAppProfileResult struct {
	ResultCommon
}

func newDeleteAppProfileInput(request *DeleteAppProfileRequest) (*OperationInput, error) {
	if request == nil {
		request = &DeleteAppProfileRequest{}
	}
	if !isValidAppProfileID(request.ProfileID) {
		return nil, NewErrParamInvalid("ProfileID")
	}

	parameters := map[string]string{}
	if request.IgnoreWarnings {
		parameters["ignoreWarnings"] = strconv.FormatBool(true)
	}

	input := &OperationInput{
		OpName:     opNameDeleteAppProfile,
		Method:     "DELETE",
		Path:       appProfilePath(*request.ProfileID),
		Parameters: parameters,
	}
	applyRequestCommon(input, &request.RequestCommon)
	return input, nil
}

// Permanently deletes an app profile.
func (c *Client) DeleteAppProfile(ctx context.Context, request *DeleteAppProfileRequest, optFns ...func(*Options)) (*DeleteAppProfileResult, error) {
	input, err := newDeleteAppProfileInput(request)
	if err != nil {
		return nil, &OperationError{OperationName: opNameDeleteAppProfile, Err: err}
	}

	output, err := c.invokeOperation(ctx, input, optFns)
	if err != nil {
		return nil, err
	}

	result := &DeleteAppProfileResult{}
	if err = unmarshalOutput(result, output, discardBody); err != nil {
		return nil, c.toClientError(err, "UnmarshalOutputFail", output)
	}

	return result, nil
}
