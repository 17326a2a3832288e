// Package http exposes the booking desk over a JSON API built on gin.
//
// All API routes live under /api/v1 and, apart from POST /sessions, require
// an "Authorization: Bearer <token>" header naming a session issued by
// POST /sessions.
//
//   - POST /sessions: body {"email","password"}; returns {"token","user"}.
//     Only unknown or inactive accounts are refused.
//   - GET /sessions/current, DELETE /sessions/current: inspect or end the
//     session named by the bearer token.
//   - GET /bookings, POST /bookings, GET /bookings/:id: residents see their own
//     requests, staff see all.
//   - POST /bookings/:id/route (help desk, admin), POST /bookings/:id/approve
//     and POST /bookings/:id/reject (manager, admin): body {"remarks"} or
//     {"reason"}.
//   - GET /bookings/stats, GET /bookings/report?startDate&endDate&status&venue&requester:
//     staff only.
//   - GET /notifications, GET /notifications/unread-count,
//     POST /notifications/read-all: scoped to the session user.
//   - GET /facilities (?all=true includes inactive), POST /facilities,
//     PATCH /facilities/:id, DELETE /facilities/:id: writes are admin only.
//   - GET /users, POST /users, POST /users/:id/deactivate: admin only.
//
// GET /health reports liveness outside the API group. Errors are returned as
// {"error_code","message","errors"} with 401 for missing sessions, 403 for
// role failures, 404, 409 for duplicates and out-of-order workflow steps,
// and 422 for validation failures.
package http
