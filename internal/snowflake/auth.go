package snowflake

import (
	"crypto/rsa"
	"fmt"
	"os"

	"snowdemo/pkg/errors"

	"golang.org/x/crypto/ssh"
)

// LoadPrivateKey reads an RSA private key for key-pair (JWT) authentication.
// PKCS#1, PKCS#8 and OpenSSH encodings are accepted; passphrase protects
// legacy encrypted PEM and OpenSSH keys.
func LoadPrivateKey(path, passphrase string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the user's own connection config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "Failed to read private key").
			WithContext("path", path).AsFatal()
	}

	return ParsePrivateKey(data, passphrase)
}

// ParsePrivateKey decodes PEM data into an RSA key.
func ParsePrivateKey(data []byte, passphrase string) (*rsa.PrivateKey, error) {
	var (
		raw interface{}
		err error
	)
	if passphrase != "" {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
	} else {
		raw, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		if _, missing := err.(*ssh.PassphraseMissingError); missing {
			return nil, errors.New(errors.ErrCodeKeyInvalid, "Private key is encrypted").
				WithSuggestions("Set private_key_file_pwd in connections.toml").
				AsFatal()
		}
		return nil, errors.Wrap(err, errors.ErrCodeKeyInvalid, "Failed to parse private key").AsFatal()
	}

	switch key := raw.(type) {
	case *rsa.PrivateKey:
		return key, nil
	default:
		return nil, errors.New(errors.ErrCodeKeyInvalid, fmt.Sprintf("Unsupported key type %T", raw)).
			WithSuggestions("Snowflake key-pair authentication requires an RSA key").
			AsFatal()
	}
}
