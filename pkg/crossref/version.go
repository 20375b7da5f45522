package crossref

// Version is the client library version reported in the User-Agent header.
const Version = "1.0.0"

// ClientIdentifier is the fixed User-Agent token identifying this client.
const ClientIdentifier = "crossref-client-go/" + Version + " (https://github.com/edent/crossref-client)"
