// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteHealth is the liveness probe route.
	RouteHealth = "/health"

	// RouteBoard is the board list route pattern.
	RouteBoard = "/board/{category}"
	// RouteBoardNew is the new-post form route pattern.
	RouteBoardNew = "/board/{category}/new"
	// RouteBoardPost is the post detail route pattern.
	RouteBoardPost = "/board/{category}/{id}"
	// RouteBoardPostEdit is the edit-post form route pattern.
	RouteBoardPostEdit = "/board/{category}/{id}/edit"
	// RouteBoardPostDelete is the delete route pattern.
	RouteBoardPostDelete = "/board/{category}/{id}/delete"

	// RouteAdmin is the admin dashboard route.
	RouteAdmin = "/admin"
	// RouteAdminSignup is the admin provisioning route.
	RouteAdminSignup = "/admin/signup"
)

// Redirect targets.
const (
	redirectHome   = "/"
	redirectLogin  = "/login"
	redirectAdmin  = "/admin"
	redirectPrefix = "/board/"
)
