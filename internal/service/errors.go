package service

import "errors"

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrEpisodeNotFound    = errors.New("episode not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IsNotFound 是否为资源不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMovieNotFound) ||
		errors.Is(err, ErrEpisodeNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
