package common

// SessionCookieName is the cookie that carries the moderator's signed
// session token between the browser and the server.
const SessionCookieName = "suggestbox_session"
