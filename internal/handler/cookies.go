package handler

import "net/http"

// Cookie names the token pair is stored under.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(accessTokenCookie, accessToken, 0))
	http.SetCookie(w, authCookie(refreshTokenCookie, refreshToken, 0))
}

// clearAuthCookies expires both cookies with the same attributes they were
// set with.
func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(refreshTokenCookie, "", -1))
}
