// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/olegiv/airdrops-hunter/internal/validation"

func registerRequest(username, email string, isAdmin bool) validation.RegisterRequest {
	return validation.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "secret1",
		IsAdmin:  isAdmin,
	}
}
