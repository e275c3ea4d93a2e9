package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	otpDigits                 = 6
	stateTokenBytes           = 24
	errGenerateRandomBytesFmt = "failed to generate random bytes: %w"
	errGenerateRandomDigitFmt = "failed to generate random digit: %w"
	errLengthPositiveFmt      = "length must be positive"
	errByteLengthPositiveFmt  = "byteLength must be positive"
)

func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf(errLengthPositiveFmt)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

func GenerateHex(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf(errByteLengthPositiveFmt)
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateOTP returns a six-digit numeric verification code. Each digit
// is drawn independently from crypto/rand so leading zeros are possible.
func GenerateOTP() (string, error) {
	code := make([]byte, otpDigits)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf(errGenerateRandomDigitFmt, err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// GenerateStateToken returns an opaque token for the OAuth state parameter.
func GenerateStateToken() (string, error) {
	return GenerateHex(stateTokenBytes)
}
