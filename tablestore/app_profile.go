package tablestore

// MultiClusterRoutingUseAny routes requests to the nearest available cluster.
// It has no parameters; its presence selects the policy.
type MultiClusterRoutingUseAny struct{}

// SingleClusterRouting pins all requests of a profile to one cluster.
type SingleClusterRouting struct {
	// The cluster every request is routed to.
	ClusterID *string `json:"clusterId,omitempty"`

	// Whether single-row transactions are allowed through this profile. Only
	// meaningful with single-cluster routing.
	AllowTransactionalWrites bool `json:"allowTransactionalWrites,omitempty"`
}

// AppProfile names a routing policy applications select per request. Exactly
// one of the routing fields is set; build values with the constructor helpers
// below.
type AppProfile struct {
	// The full resource name of the profile.
	Name *string `json:"name,omitempty"`

	// A human readable description of the profile's purpose.
	Description *string `json:"description,omitempty"`

	MultiClusterRoutingUseAny *MultiClusterRoutingUseAny `json:"multiClusterRoutingUseAny,omitempty"`

	SingleClusterRouting *SingleClusterRouting `json:"singleClusterRouting,omitempty"`
}

// AppProfileConfig pairs the profile id chosen by the caller with the profile
// definition sent to the service.
type AppProfileConfig struct {
	ProfileID *string
	Profile   AppProfile
}

// MultiClusterUseAnyAppProfile builds a profile that lets the service route
// each request to any available cluster.
func MultiClusterUseAnyAppProfile(profileID string) AppProfileConfig {
	return AppProfileConfig{
		ProfileID: Ptr(profileID),
		Profile: AppProfile{
			MultiClusterRoutingUseAny: &MultiClusterRoutingUseAny{},
		},
	}
}

// SingleClusterRoutingAppProfile builds a profile pinned to clusterID.
func SingleClusterRoutingAppProfile(profileID, clusterID string, allowTransactionalWrites bool) AppProfileConfig {
	return AppProfileConfig{
		ProfileID: Ptr(profileID),
		Profile: AppProfile{
			SingleClusterRouting: &SingleClusterRouting{
				ClusterID:                Ptr(clusterID),
				AllowTransactionalWrites: allowTransactionalWrites,
			},
		},
	}
}

func (c *AppProfileConfig) WithDescription(description string) *AppProfileConfig {
	c.Profile.Description = Ptr(description)
	return c
}
