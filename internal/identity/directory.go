package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"workforce/config"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"go.uber.org/zap"
)

// ErrUserNotFound 外部帳號已不存在，刪除流程視為成功
var ErrUserNotFound = errors.New("identity user not found")

const clerkNotFoundCode = "resource_not_found"

// userAPI clerk user.Client 中會用到的方法，方便測試替換
type userAPI interface {
	Delete(ctx context.Context, id string) (*clerk.DeletedResource, error)
	List(ctx context.Context, params *user.ListParams) (*clerk.UserList, error)
}

// ClerkDirectory 透過 Clerk Backend API 查詢與刪除使用者
type ClerkDirectory struct {
	users  userAPI
	logger *zap.Logger
}

func NewClerkDirectory(logger *zap.Logger, config *config.Configuration) *ClerkDirectory {
	backend := clerk.BackendConfig{
		Key: clerk.String(config.Identity.SecretKey),
	}
	if config.Identity.APIURL != "" {
		backend.URL = clerk.String(config.Identity.APIURL)
	}
	if config.Identity.Timeout > 0 {
		backend.HTTPClient = &http.Client{Timeout: time.Duration(config.Identity.Timeout) * time.Millisecond}
	}
	return &ClerkDirectory{
		users:  user.NewClient(&clerk.ClientConfig{BackendConfig: backend}),
		logger: logger,
	}
}

func newDirectory(logger *zap.Logger, users userAPI) *ClerkDirectory {
	return &ClerkDirectory{users: users, logger: logger}
}

// LookupUserIDByEmail 找不到時回傳 ErrUserNotFound
func (d *ClerkDirectory) LookupUserIDByEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrUserNotFound
	}
	list, err := d.users.List(ctx, &user.ListParams{EmailAddresses: []string{email}})
	if err != nil {
		return "", translate(err)
	}
	if list == nil || len(list.Users) == 0 || list.Users[0] == nil {
		return "", ErrUserNotFound
	}
	return list.Users[0].ID, nil
}

// DeleteUser 帳號不存在時回傳 ErrUserNotFound
func (d *ClerkDirectory) DeleteUser(ctx context.Context, userID string) error {
	if _, err := d.users.Delete(ctx, userID); err != nil {
		err = translate(err)
		if !IsNotFound(err) {
			d.logger.Warn("identity user delete failed", zap.String("userId", userID), zap.Error(err))
		}
		return err
	}
	return nil
}

// IsNotFound 判斷是否為外部帳號不存在
func IsNotFound(err error) bool {
	if errors.Is(err, ErrUserNotFound) {
		return true
	}
	var apiErr *clerk.APIErrorResponse
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode == http.StatusNotFound {
		return true
	}
	for _, e := range apiErr.Errors {
		if e.Code == clerkNotFoundCode {
			return true
		}
	}
	return false
}

func translate(err error) error {
	if IsNotFound(err) && !errors.Is(err, ErrUserNotFound) {
		return errors.Join(ErrUserNotFound, err)
	}
	return err
}
