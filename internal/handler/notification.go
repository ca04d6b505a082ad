package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"eventpay/internal/domain"
	"eventpay/internal/gateway"
)

// parseNotificationFields flattens a gateway notification into a field bag.
// The redirect channel must tolerate GET query strings, form-encoded POSTs,
// and JSON POSTs; the webhook channel only ever sends form-encoded POSTs but
// shares this parser. Form values win over query values of the same name.
func parseNotificationFields(c *gin.Context) (map[string]string, error) {
	fields := make(map[string]string)

	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	if c.Request.Method != "POST" || c.Request.Body == nil {
		return fields, nil
	}

	contentType := c.ContentType()
	if strings.Contains(contentType, "json") {
		var body map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber() // keep "1000.00" byte-exact for hashing
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for name, value := range body {
			switch v := value.(type) {
			case string:
				fields[name] = v
			case json.Number:
				fields[name] = v.String()
			case bool:
				fields[name] = fmt.Sprintf("%t", v)
			case nil:
				// omit
			default:
				fields[name] = fmt.Sprintf("%v", v)
			}
		}
		return fields, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	return fields, nil
}

// buildGatewayEvent normalizes a raw field bag into the canonical event. The
// gateway has shipped several field spellings over time; both the current
// snake_case names and the legacy camelCase/status ones are accepted.
func buildGatewayEvent(fields map[string]string, source domain.SourceChannel) *domain.GatewayEvent {
	return &domain.GatewayEvent{
		OrderID:         fields["order_id"],
		TransactionID:   fields["transaction_id"],
		PaymentID:       fields["payment_id"],
		ResponseCode:    firstField(fields, "response_code", "responseCode"),
		ResponseMessage: firstField(fields, "response_message", "responseMessage"),
		LegacyStatus:    fields["status"],
		ErrorDesc:       fields["error_desc"],
		Amount:          fields["amount"],
		Currency:        fields["currency"],
		HashReceived:    fields[gateway.HashFieldName],
		RawFields:       fields,
		Source:          source,
	}
}

func firstField(fields map[string]string, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
