package ir

// Service is a named collection of RPC methods.
type Service struct {
	Name    string
	Doc     string
	Methods []Method
}

// Method is a single RPC. RequestType and ResponseType are type tokens as
// captured by the loader: either written relative to the enclosing scope
// ("HelloReply"), partially qualified ("user.User"), or fully qualified with
// a leading '.' (".user.User").
type Method struct {
	Name         string
	Doc          string
	RequestType  string
	ResponseType string

	// Streaming flags are recorded for the IR dump; declaration output models
	// every method as a single request and a single response.
	RequestStream  bool
	ResponseStream bool
}
