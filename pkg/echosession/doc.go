// Package echosession plugs jwtsession into the Echo framework.
//
//	e := echo.New()
//	e.Use(echosession.Middleware(manager))
//
//	e.POST("/login", func(c echo.Context) error {
//		s := echosession.MustFromContext(c)
//		if err := s.Set("user_id", userID); err != nil {
//			return err
//		}
//		return c.NoContent(http.StatusNoContent)
//	})
//
// Errors returned by handlers reach Echo's HTTPErrorHandler as usual; the
// session cookie decided by jwtsession is already in the response header
// when the error page is written.
package echosession
