package authlogout

const inputSchema = `{
  "type": "object",
  "required": ["refreshToken"],
  "properties": {
    "refreshToken": {"type": "string", "minLength": 10, "maxLength": 4096},
    "reason":       {"type": "string", "maxLength": 500},
    "identity":     {"type": "object"}
  }
}`
