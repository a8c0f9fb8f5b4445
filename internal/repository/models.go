package repository

// Models lists every gorm model in migration-safe order (parents first).
func Models() []interface{} {
	return []interface{}{
		&studioModel{},
		&studioServiceModel{},
		&equipmentModel{},
		&availabilityRuleModel{},
		&bookingModel{},
		&gatewayPaymentModel{},
	}
}
