// Package server provides HTTP routing, middleware and the JSON handlers of the local web shell.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /api/session"), so
// the mux answers 405 for a known path with the wrong method.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Endpoints
//
//	GET    /api/session             {user, isLoading, favorites}
//	POST   /api/login               {email, password}
//	POST   /api/register            {name, email, password, confirmPassword}
//	POST   /api/logout
//	GET    /api/favorites           guarded
//	POST   /api/favorites           guarded, body is a favorite item
//	DELETE /api/favorites/{id}      guarded
//	POST   /api/favorites/{id}/toggle guarded
//	GET    /api/ingredients
//	GET    /api/cocktails?ingredient= guarded, each drink carries isFavorite
//	GET    /api/cocktails/{id}
//
// Guarded routes answer 503 while the session store is loading and 401 without a session.
package server
