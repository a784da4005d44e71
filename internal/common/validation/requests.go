package validation

var nonEmptyString = Property{Type: "string", MinLength: intPtr(1)}

// userOrCode accepts a string or integer. Older clients post numeric ids
// and codes.
var userOrCode = Property{AnyOf: []Property{
	{Type: "string", MinLength: intPtr(1)},
	{Type: "integer"},
}}

// answerItem accepts any item. Items that do not name a known question with
// string answer text are skipped when scoring.
var answerItem = Property{}

var researchPaper = Property{
	Type: "object",
	Properties: map[string]Property{
		"title": {Type: "string"},
		"venue": {Type: "string"},
		"year":  {AnyOf: []Property{{Type: "string"}, {Type: "integer"}}},
		"link":  {Type: "string"},
	},
}

// RegisterSchema covers POST /api/auth/register.
var RegisterSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"name":         nonEmptyString,
		"email":        nonEmptyString,
		"class_status": nonEmptyString,
		"phone":        nonEmptyString,
	},
	Required: []string{"name", "email", "class_status", "phone"},
}

// VerifyOTPSchema covers POST /api/auth/verify-otp.
var VerifyOTPSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"userId": userOrCode,
		"otp":    userOrCode,
	},
	Required: []string{"userId", "otp"},
}

// UpdateProfileSchema covers POST /api/auth/update-profile. Unknown profile
// keys are accepted and ignored.
var UpdateProfileSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"userId": userOrCode,
		"profile": {
			Type: "object",
			Properties: map[string]Property{
				"researchPapers": {Type: "array", Items: &researchPaper},
			},
		},
	},
	Required: []string{"userId", "profile"},
}

// SubmitTestSchema covers POST /api/test/submit.
var SubmitTestSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"userId":  userOrCode,
		"answers": {Type: "array", Items: &answerItem},
	},
	Required: []string{"userId", "answers"},
}

// ScoreAssessmentSchema is the score-assessment job input.
var ScoreAssessmentSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"userId":  {Type: "string"},
		"answers": {Type: "array", Items: &answerItem},
	},
	Required: []string{"answers"},
}

// SendOTPSchema is the send-otp job input.
var SendOTPSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"userId": nonEmptyString,
	},
	Required:             []string{"userId"},
	AdditionalProperties: boolPtr(true),
}

var (
	Register        = MustCompile("register", RegisterSchema)
	VerifyOTP       = MustCompile("verify-otp", VerifyOTPSchema)
	UpdateProfile   = MustCompile("update-profile", UpdateProfileSchema)
	SubmitTest      = MustCompile("submit-test", SubmitTestSchema)
	ScoreAssessment = MustCompile("score-assessment", ScoreAssessmentSchema)
	SendOTP         = MustCompile("send-otp", SendOTPSchema)
)
