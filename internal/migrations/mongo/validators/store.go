package validators

import "go.mongodb.org/mongo-driver/bson"

const (
	clockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
)

// dayHoursSchema is shared by weekly business hours, calendar override
// special hours and resource working hours.
var dayHoursSchema = bson.M{
	"bsonType": "object",
	"required": []string{"open", "close"},
	"properties": bson.M{
		"open": bson.M{
			"bsonType": "string",
			"pattern":  clockPattern,
		},
		"close": bson.M{
			"bsonType": "string",
			"pattern":  clockPattern,
		},
	},
}

var StoreValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"business_hours",
			"booking_window_days",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"business_hours": bson.M{
				"bsonType":             "object",
				"additionalProperties": dayHoursSchema,
			},

			"calendar_overrides": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"properties": bson.M{
						"is_closed": bson.M{
							"bsonType": "bool",
						},
						"special_hours": dayHoursSchema,
					},
				},
			},

			"booking_window_days": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  365,
			},

			"hold_duration_seconds": bson.M{
				"bsonType": "int",
				"minimum":  60,
				"maximum":  3600,
			},

			"auto_approval": bson.M{
				"bsonType": "bool",
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
