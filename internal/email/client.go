package email

import (
	"crypto/tls"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// Client representa el cliente de correo electrónico
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

// NewClient crea una nueva instancia del cliente de email
func NewClient(host, portStr, user, password, fromName, fromEmail string) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("puerto SMTP inválido: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendEmail envía un correo electrónico a uno o más destinatarios
func (c *Client) SendEmail(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no hay destinatarios")
	}

	// Crear mensaje
	m := mail.NewMsg()

	// Configurar remitente
	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("error al configurar remitente: %w", err)
	}

	// Configurar destinatarios
	if err := m.To(to...); err != nil {
		return fmt.Errorf("error al configurar destinatarios: %w", err)
	}

	// Configurar asunto
	m.Subject(subject)

	// Configurar cuerpo HTML
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	// Crear cliente SMTP
	log.Printf("SMTP: connecting to %s:%d as user=%s", c.host, c.port, c.user)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("error al crear cliente SMTP (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}

	// Enviar correo
	if err := client.DialAndSend(m); err != nil {
		// Añadir contexto útil al error sin exponer credenciales
		return fmt.Errorf("error al enviar correo (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}

	return nil
}

// GatePassInfo contiene la información del pase para el email. El aadhaar
// llega ya enmascarado: el correo nunca muestra el número completo.
type GatePassInfo struct {
	VisitorType       string
	Name              string
	Address           string
	AadhaarMasked     string
	GatePassNo        string
	VisitDate         time.Time
	TimeIn            string
	TimeOut           string
	GeneratedBy       string
	MeetTo            string
	Building          string
	Equipment         string
	Persons           int
	AccompanyingNames string
	Photo             string // data URL o URL pública, opcional
}

// SendGatePass envía el pase de entrada a la lista de destinatarios
func (c *Client) SendGatePass(recipients []string, pass GatePassInfo) error {
	subject := fmt.Sprintf("Gate Pass %s - %s (%s)", pass.GatePassNo, pass.Name, pass.VisitorType)
	htmlBody := generarHTMLGatePass(pass)

	return c.SendEmail(recipients, subject, htmlBody)
}

// generarHTMLGatePass genera el HTML del pase de entrada
func generarHTMLGatePass(pass GatePassInfo) string {
	// Foto opcional del visitante
	fotoHTML := ""
	if pass.Photo != "" {
		fotoHTML = fmt.Sprintf(`
			<div style="text-align: center; margin-bottom: 20px;">
				<img src="%s" alt="Foto del visitante" style="max-width: 160px; border-radius: 8px; border: 2px solid #e0e0e0;">
			</div>
		`, pass.Photo)
	}

	// Aviso de seguridad cuando el destino es la planta
	avisoHTML := ""
	if strings.EqualFold(pass.Building, "plant") {
		avisoHTML = `
			<div style="margin-top: 20px; padding: 15px; background-color: #fff3cd; border-radius: 8px; border-left: 4px solid #ffc107;">
				<strong style="color: #856404;">⚠️ Please Visit HSE for Safety instructions</strong>
			</div>
		`
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Gate Pass</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f4f4f4; padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
					<!-- Header -->
					<tr>
						<td style="background-color: #1a3c6e; padding: 30px 20px; text-align: center;">
							<h1 style="color: #ffffff; margin: 0; font-size: 26px;">Gate Pass</h1>
							<p style="color: #ffffff; margin: 10px 0 0 0; font-size: 18px; letter-spacing: 1px;">%s</p>
						</td>
					</tr>

					<!-- Contenido -->
					<tr>
						<td style="padding: 30px;">
							%s
							<div style="background-color: #f8f9fa; border-left: 4px solid #1a3c6e; padding: 20px;">
								<table width="100%%" cellpadding="0" cellspacing="0">
									<tr>
										<td style="padding: 6px 0;"><strong>Tipo:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Nombre:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Aadhaar:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Dirección:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Fecha de visita:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Hora entrada / salida:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s / %s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Generado por:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Visita a:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Edificio:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Equipos:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Personas:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%d</td>
									</tr>
									<tr>
										<td style="padding: 6px 0;"><strong>Acompañantes:</strong></td>
										<td style="padding: 6px 0; text-align: right;">%s</td>
									</tr>
								</table>
							</div>
							%s
						</td>
					</tr>

					<!-- Footer -->
					<tr>
						<td style="background-color: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #e0e0e0;">
							<p style="margin: 0; color: #999; font-size: 12px;">
								Este es un correo automático, por favor no responder.
							</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>
	`,
		pass.GatePassNo,
		fotoHTML,
		pass.VisitorType,
		pass.Name,
		pass.AadhaarMasked,
		pass.Address,
		pass.VisitDate.Format("02/01/2006"),
		pass.TimeIn,
		pass.TimeOut,
		pass.GeneratedBy,
		pass.MeetTo,
		pass.Building,
		pass.Equipment,
		pass.Persons,
		pass.AccompanyingNames,
		avisoHTML,
	)

	return html
}
