package tablestore

const sdkVersion = "1.2.1"

// Version returns the version of the SDK.
func Version() string {
	return sdkVersion
}
