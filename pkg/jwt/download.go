package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Download tokens gate access to locally stored note files. They are short
// lived and scoped to a single file key.
const DownloadTokenExpiry = 15 * time.Minute

type DownloadClaims struct {
	FileKey  string
	FileName string
	MimeType string
	UserID   uint
}

func GenerateDownloadToken(secret []byte, claims DownloadClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"file_key":  claims.FileKey,
		"file_name": claims.FileName,
		"mime_type": claims.MimeType,
		"user_id":   claims.UserID,
		"exp":       time.Now().Add(DownloadTokenExpiry).Unix(),
		"iat":       time.Now().Unix(),
	})
	return token.SignedString(secret)
}

func ValidateDownloadToken(secret []byte, tokenString string) (*DownloadClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	fileKey, _ := claims["file_key"].(string)
	fileName, _ := claims["file_name"].(string)
	mimeType, _ := claims["mime_type"].(string)
	userIDFloat, _ := claims["user_id"].(float64)
	if fileKey == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &DownloadClaims{
		FileKey:  fileKey,
		FileName: fileName,
		MimeType: mimeType,
		UserID:   uint(userIDFloat),
	}, nil
}
